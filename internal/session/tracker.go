package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
)

// Cooldown is the fixed wait between casting a line and reeling it in.
// Not yet a function of rod tier.
const Cooldown = 60 * time.Second

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// CancelFunc stops a pending completion. It reports whether the
// completion had not yet fired.
type CancelFunc func() bool

// Scheduler runs fn once after d on its own goroutine. The default is
// time.AfterFunc; tests substitute a scheduler they trigger by hand.
type Scheduler func(d time.Duration, fn func()) CancelFunc

func realScheduler(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// Catcher resolves a completed session into an outcome.
type Catcher interface {
	Catch(ctx context.Context, userID int64) (fish.Outcome, error)
}

// Notifier delivers a catch outcome to the user, independent of the
// interaction that started the session. Best effort.
type Notifier interface {
	DeliverCatch(userID int64, out fish.Outcome)
}

// StartResult is the immediate reply to a fish attempt.
type StartResult struct {
	Started   bool
	Cooldown  time.Duration // set when Started
	Remaining time.Duration // set when a session is already active
}

type liveSession struct {
	token     uuid.UUID
	startedAt time.Time
	cancel    CancelFunc
}

// Tracker holds every user's in-flight fishing session. Sessions for
// different users are independent; a single user has at most one.
type Tracker struct {
	cooldown time.Duration
	clk      Clock
	schedule Scheduler
	catcher  Catcher
	notifier Notifier
	log      *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*liveSession
}

func NewTracker(cooldown time.Duration, catcher Catcher, notifier Notifier, log *slog.Logger, clk Clock, schedule Scheduler) *Tracker {
	if cooldown <= 0 {
		cooldown = Cooldown
	}
	if clk == nil {
		clk = RealClock{}
	}
	if schedule == nil {
		schedule = realScheduler
	}
	if log == nil {
		log = slog.Default()
	}

	return &Tracker{
		cooldown: cooldown,
		clk:      clk,
		schedule: schedule,
		catcher:  catcher,
		notifier: notifier,
		log:      log,
		sessions: make(map[int64]*liveSession),
	}
}

// Start begins a session for the user, or reports the remaining wait if
// one is already active. The completion is scheduled here and runs off
// this goroutine; Start never blocks on it.
//
// Each session carries a token. A completion only delivers if the
// registry still holds its token, so when an expired-but-uncompleted
// session is overwritten, the stale completion is cancelled and, should
// it fire anyway, dropped.
func (t *Tracker) Start(userID int64) StartResult {
	now := t.clk.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.sessions[userID]; ok {
		if remaining := t.cooldown - now.Sub(s.startedAt); remaining > 0 {
			return StartResult{Remaining: remaining}
		}
		if s.cancel != nil {
			s.cancel()
		}
	}

	token := uuid.New()
	cancel := t.schedule(t.cooldown, func() { t.complete(userID, token) })
	t.sessions[userID] = &liveSession{token: token, startedAt: now, cancel: cancel}

	return StartResult{Started: true, Cooldown: t.cooldown}
}

func (t *Tracker) complete(userID int64, token uuid.UUID) {
	t.mu.Lock()
	s, ok := t.sessions[userID]
	if !ok || s.token != token {
		t.mu.Unlock()
		t.log.Debug("dropping superseded completion", "user_id", userID)
		return
	}
	delete(t.sessions, userID)
	t.mu.Unlock()

	out, err := t.catcher.Catch(context.Background(), userID)
	if err != nil {
		t.log.Error("catch failed", "user_id", userID, "err", err)
		return
	}

	t.notifier.DeliverCatch(userID, out)
}

// Active reports whether the user has a session in progress and, if so,
// how long until it completes.
func (t *Tracker) Active(userID int64) (time.Duration, bool) {
	now := t.clk.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[userID]
	if !ok {
		return 0, false
	}
	remaining := t.cooldown - now.Sub(s.startedAt)
	if remaining <= 0 {
		return 0, false
	}
	return remaining, true
}
