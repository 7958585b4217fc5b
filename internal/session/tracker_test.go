package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeScheduler records scheduled completions; tests fire them by hand.
type fakeScheduler struct {
	fns       []func()
	cancelled []bool
}

func (s *fakeScheduler) schedule(_ time.Duration, fn func()) CancelFunc {
	idx := len(s.fns)
	s.fns = append(s.fns, fn)
	s.cancelled = append(s.cancelled, false)
	return func() bool {
		s.cancelled[idx] = true
		return true
	}
}

type fakeCatcher struct {
	out   fish.Outcome
	err   error
	calls int
}

func (c *fakeCatcher) Catch(_ context.Context, _ int64) (fish.Outcome, error) {
	c.calls++
	return c.out, c.err
}

type fakeNotifier struct {
	delivered []fish.Outcome
}

func (n *fakeNotifier) DeliverCatch(_ int64, out fish.Outcome) {
	n.delivered = append(n.delivered, out)
}

func newTestTracker(catcher *fakeCatcher) (*Tracker, *fakeClock, *fakeScheduler, *fakeNotifier) {
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	sched := &fakeScheduler{}
	notifier := &fakeNotifier{}
	tr := NewTracker(Cooldown, catcher, notifier, nil, clk, sched.schedule)
	return tr, clk, sched, notifier
}

func TestStartCooldownSequence(t *testing.T) {
	tr, clk, _, _ := newTestTracker(&fakeCatcher{})

	res := tr.Start(1)
	if !res.Started || res.Cooldown != Cooldown {
		t.Fatalf("first start: %+v", res)
	}

	clk.advance(30 * time.Second)
	res = tr.Start(1)
	if res.Started {
		t.Fatal("start succeeded during cooldown")
	}
	if res.Remaining != 30*time.Second {
		t.Fatalf("remaining = %s, want 30s", res.Remaining)
	}

	clk.advance(31 * time.Second)
	res = tr.Start(1)
	if !res.Started {
		t.Fatalf("start after cooldown elapsed: %+v", res)
	}
}

func TestUsersAreIndependent(t *testing.T) {
	tr, _, _, _ := newTestTracker(&fakeCatcher{})

	if res := tr.Start(1); !res.Started {
		t.Fatal("user 1 could not start")
	}
	if res := tr.Start(2); !res.Started {
		t.Fatal("user 2 blocked by user 1's session")
	}
}

func TestCompletionDelivers(t *testing.T) {
	catcher := &fakeCatcher{out: fish.Caught{Fish: fish.Definition{ID: 1, Name: "Minnow"}}}
	tr, _, sched, notifier := newTestTracker(catcher)

	tr.Start(1)
	if len(sched.fns) != 1 {
		t.Fatalf("expected 1 scheduled completion, got %d", len(sched.fns))
	}

	sched.fns[0]()

	if catcher.calls != 1 {
		t.Fatalf("catcher calls = %d, want 1", catcher.calls)
	}
	if len(notifier.delivered) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(notifier.delivered))
	}
	if _, active := tr.Active(1); active {
		t.Error("session still active after completion")
	}
}

func TestCompletionSwallowsCatchError(t *testing.T) {
	catcher := &fakeCatcher{err: errors.New("db down")}
	tr, _, sched, notifier := newTestTracker(catcher)

	tr.Start(1)
	sched.fns[0]()

	if len(notifier.delivered) != 0 {
		t.Fatalf("delivered despite catch failure: %v", notifier.delivered)
	}
	if _, active := tr.Active(1); active {
		t.Error("failed session left in the registry")
	}
}

func TestSupersededCompletionIsDropped(t *testing.T) {
	catcher := &fakeCatcher{out: fish.Caught{Fish: fish.Definition{ID: 1}}}
	tr, clk, sched, notifier := newTestTracker(catcher)

	tr.Start(1)
	clk.advance(Cooldown + time.Second)

	// The first completion never fired; starting again must cancel it
	// and, if it fires anyway, its delivery must be dropped.
	if res := tr.Start(1); !res.Started {
		t.Fatal("restart after expiry failed")
	}
	if !sched.cancelled[0] {
		t.Error("stale completion was not cancelled")
	}

	sched.fns[0]()
	if len(notifier.delivered) != 0 {
		t.Fatal("stale completion delivered")
	}
	if _, active := tr.Active(1); !active {
		t.Fatal("stale completion tore down the live session")
	}

	sched.fns[1]()
	if len(notifier.delivered) != 1 {
		t.Fatalf("deliveries = %d, want exactly 1", len(notifier.delivered))
	}
}

func TestActive(t *testing.T) {
	tr, clk, _, _ := newTestTracker(&fakeCatcher{})

	if _, active := tr.Active(1); active {
		t.Fatal("active before any start")
	}

	tr.Start(1)
	clk.advance(10 * time.Second)

	remaining, active := tr.Active(1)
	if !active || remaining != Cooldown-10*time.Second {
		t.Fatalf("Active = %s, %v", remaining, active)
	}
}
