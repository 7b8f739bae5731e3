// Package throttle implements a quiescence-window rate limiter.
//
// The first call in a burst runs immediately. Further calls inside the
// window are coalesced into at most one trailing run when the window
// expires; that trailing run opens a fresh window of its own.
package throttle

import (
	"sync"
	"time"

	"github.com/rshade/virtuallist/internal/clock"
)

// DefaultInterval is the quiescence window used when none is configured.
const DefaultInterval = 300 * time.Millisecond

// Stats counts how calls were handled.
type Stats struct {
	// Calls is the number of Call invocations accepted before Stop.
	Calls int `json:"calls"`
	// Runs is the number of times the wrapped function executed.
	Runs int `json:"runs"`
	// Dropped is the number of calls that were coalesced away or cancelled.
	Dropped int `json:"dropped"`
}

// Option configures a Throttler.
type Option func(*Throttler)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(t *Throttler) {
		t.clock = c
	}
}

// WithLeading controls whether the first call of a burst runs immediately.
func WithLeading(enabled bool) Option {
	return func(t *Throttler) {
		t.leading = enabled
	}
}

// WithTrailing controls whether calls made inside the window produce a
// single run once the window expires. When disabled they are dropped.
func WithTrailing(enabled bool) Option {
	return func(t *Throttler) {
		t.trailing = enabled
	}
}

// WithAfterRun sets a hook called after each run of fn, once the run lock
// is released. The hook may call Stop, Cancel or Call; fn may not.
func WithAfterRun(hook func()) Option {
	return func(t *Throttler) {
		t.afterRun = hook
	}
}

// Throttler runs fn at most once per interval. It is safe for concurrent use.
// fn never runs concurrently with itself and never runs after Stop returns.
// fn must not call back into the Throttler; use WithAfterRun for that.
type Throttler struct {
	fn       func()
	afterRun func()
	interval time.Duration
	clock    clock.Clock
	leading  bool
	trailing bool

	mu         sync.Mutex
	timer      clock.Timer
	generation uint64
	pending    bool
	stopped    bool
	stats      Stats

	// runMu serializes fn and lets Stop wait for an in-flight run.
	runMu sync.Mutex
}

// New returns a Throttler wrapping fn. A non-positive interval falls back to
// DefaultInterval.
func New(fn func(), interval time.Duration, opts ...Option) *Throttler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := &Throttler{
		fn:       fn,
		interval: interval,
		clock:    clock.Real(),
		leading:  true,
		trailing: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Interval returns the quiescence window.
func (t *Throttler) Interval() time.Duration {
	return t.interval
}

// Call requests a run of fn.
func (t *Throttler) Call() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stats.Calls++

	if t.timer == nil {
		t.openWindowLocked()
		if t.leading {
			t.mu.Unlock()
			t.run()
			return
		}
		if t.trailing {
			t.pending = true
		} else {
			t.stats.Dropped++
		}
		t.mu.Unlock()
		return
	}

	switch {
	case !t.trailing, t.pending:
		t.stats.Dropped++
	default:
		t.pending = true
	}
	t.mu.Unlock()
}

// Pending reports whether a trailing run is scheduled.
func (t *Throttler) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Stats returns a snapshot of the call counters.
func (t *Throttler) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Cancel drops any pending trailing run and closes the current window, so the
// next Call runs immediately again.
func (t *Throttler) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Flush runs a pending trailing call now instead of waiting for the window
// to expire. It does nothing when no call is pending.
func (t *Throttler) Flush() {
	t.mu.Lock()
	if t.stopped || !t.pending {
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.closeWindowLocked()
	t.mu.Unlock()

	t.run()
}

// Stop cancels pending work and disables the throttler permanently. When Stop
// returns no run is in progress and none will start. Stop is idempotent.
func (t *Throttler) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.cancelLocked()
	t.stopped = true
	t.mu.Unlock()

	// Wait out a run that was already past its stopped check.
	t.runMu.Lock()
	defer t.runMu.Unlock()
}

func (t *Throttler) openWindowLocked() {
	t.generation++
	gen := t.generation
	t.timer = t.clock.AfterFunc(t.interval, func() { t.expire(gen) })
}

func (t *Throttler) closeWindowLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.generation++
}

func (t *Throttler) cancelLocked() {
	if t.pending {
		t.pending = false
		t.stats.Dropped++
	}
	t.closeWindowLocked()
}

// expire handles the end of a window. Stale timers from a cancelled window
// are recognised by their generation and ignored.
func (t *Throttler) expire(gen uint64) {
	t.mu.Lock()
	if t.stopped || gen != t.generation {
		t.mu.Unlock()
		return
	}
	t.timer = nil

	if !t.pending {
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.openWindowLocked()
	t.mu.Unlock()

	t.run()
}

func (t *Throttler) run() {
	if !t.runFn() {
		return
	}
	if t.afterRun != nil {
		t.afterRun()
	}
}

// runFn runs fn under runMu unless the throttler was stopped first, and
// reports whether it ran.
func (t *Throttler) runFn() bool {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return false
	}
	t.stats.Runs++
	t.mu.Unlock()

	t.fn()
	return true
}
