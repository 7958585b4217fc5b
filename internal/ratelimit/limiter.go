package ratelimit

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Limiter throttles an action to once per interval per key. Used to keep
// guild-wide refreshes (the rank board) from being spammed; per-user
// fishing pacing is the session tracker's job, not this.
type Limiter struct {
	mu       sync.Mutex
	next     map[string]time.Time
	interval time.Duration
	clk      Clock
}

func NewLimiter(interval time.Duration, clk Clock) *Limiter {
	if clk == nil {
		clk = RealClock{}
	}

	return &Limiter{
		next:     make(map[string]time.Time),
		interval: interval,
		clk:      clk,
	}
}

func (l *Limiter) TryKey(key string) (bool, time.Duration) {
	now := l.clk.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if until, ok := l.next[key]; ok && now.Before(until) {
		return false, until.Sub(now)
	}

	l.next[key] = now.Add(l.interval)
	return true, 0
}

func (l *Limiter) TryGuild(guildID, bucket string) (bool, time.Duration) {
	return l.TryKey("g:" + guildID + "|b:" + bucket)
}
