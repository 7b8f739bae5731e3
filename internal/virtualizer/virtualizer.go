package virtualizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/virtuallist/internal/clock"
	"github.com/rshade/virtuallist/internal/throttle"
	"github.com/rshade/virtuallist/internal/window"
)

// Lifecycle errors.
var (
	ErrVirtualizationUnavailable = errors.New("virtualization unavailable")
	ErrNilProvider               = errors.New("virtualizer provider cannot be nil")
	ErrAlreadyStarted            = errors.New("virtualizer already started")
)

// State is the lifecycle state of a Virtualizer.
type State int

// Lifecycle states.
const (
	StateUninitialized State = iota
	StateReady
	StateUnavailable
	StateStopped
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats summarizes recomputation activity.
type Stats struct {
	throttle.Stats

	// Recomputes counts estimates that produced a range.
	Recomputes int `json:"recomputes"`
	// Skipped counts recomputes that were no-ops because geometry was missing or invalid.
	Skipped int `json:"skipped"`
	// Changes counts recomputes whose range differed from the previous one.
	Changes int `json:"changes"`
}

// Option configures a Virtualizer.
type Option func(*Virtualizer)

// WithBuffer sets the before/after screen multipliers.
func WithBuffer(b window.Buffer) Option {
	return func(v *Virtualizer) {
		v.buffer = b
	}
}

// WithInterval sets the quiescence window for signal-driven recomputes.
func WithInterval(d time.Duration) Option {
	return func(v *Virtualizer) {
		v.interval = d
	}
}

// WithClock replaces the wall clock used by the rate limiter.
func WithClock(c clock.Clock) Option {
	return func(v *Virtualizer) {
		v.clock = c
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Virtualizer) {
		v.logger = l.With().Str("component", "virtualizer").Logger()
	}
}

// WithOnChange registers a callback invoked after each recompute that changes
// the range. It may run on a timer goroutine, and it may call Stop, Reset or
// Recompute on the Virtualizer.
func WithOnChange(fn func(window.VisibleRange)) Option {
	return func(v *Virtualizer) {
		v.onChange = fn
	}
}

// Virtualizer maintains the VisibleRange for a single list view.
type Virtualizer struct {
	provider  Provider
	buffer    window.Buffer
	interval  time.Duration
	clock     clock.Clock
	logger    zerolog.Logger
	onChange  func(window.VisibleRange)
	throttler *throttle.Throttler

	mu        sync.Mutex
	state     State
	current   window.VisibleRange
	hasRange  bool
	stats     Stats
	stopOnCtx func() bool

	// notifyRange is the latest changed range not yet passed to onChange.
	notifyRange   window.VisibleRange
	notifyPending bool
}

// New creates a Virtualizer for provider.
func New(provider Provider, opts ...Option) (*Virtualizer, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	v := &Virtualizer{
		provider: provider,
		buffer:   window.DefaultBuffer(),
		interval: throttle.DefaultInterval,
		clock:    clock.Real(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if err := v.buffer.Validate(); err != nil {
		return nil, err
	}

	v.throttler = throttle.New(v.estimate, v.interval,
		throttle.WithClock(v.clock),
		throttle.WithAfterRun(v.deliver),
	)
	return v, nil
}

// Start subscribes to the provider and performs the initial estimate.
// If subscription fails the Virtualizer becomes unavailable, treats every
// item as visible, and returns an error wrapping ErrVirtualizationUnavailable.
// Cancelling ctx stops the Virtualizer.
func (v *Virtualizer) Start(ctx context.Context) error {
	v.mu.Lock()
	if v.state != StateUninitialized {
		state := v.state
		v.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, state)
	}
	v.mu.Unlock()

	if err := v.provider.Subscribe(v.Signal); err != nil {
		v.mu.Lock()
		v.state = StateUnavailable
		v.mu.Unlock()

		v.logger.Warn().Err(err).Msg("listener registration failed, rendering all items")
		return fmt.Errorf("%w: %w", ErrVirtualizationUnavailable, err)
	}

	v.mu.Lock()
	v.state = StateReady
	if ctx != nil {
		v.stopOnCtx = context.AfterFunc(ctx, v.Stop)
	}
	v.mu.Unlock()

	v.logger.Debug().
		Int("buffer_before", v.buffer.Before).
		Int("buffer_after", v.buffer.After).
		Dur("interval", v.interval).
		Msg("virtualizer started")

	v.throttler.Call()
	return nil
}

// Signal is the scroll/resize handler. Calls are rate limited.
func (v *Virtualizer) Signal() {
	if v.State() != StateReady {
		return
	}
	v.throttler.Call()
}

// Recompute estimates the range immediately. Missing or invalid geometry is
// a no-op that keeps the previous range.
func (v *Virtualizer) Recompute() {
	v.estimate()
	v.deliver()
}

// estimate updates the range and queues a notification when it changed.
// It runs under the throttler's run lock, so it must not call onChange.
func (v *Virtualizer) estimate() {
	if v.State() != StateReady {
		return
	}

	geom, err := v.provider.CurrentGeometry()
	if err != nil {
		v.skip(err, "geometry unavailable")
		return
	}
	if geom.Sample == nil {
		v.skip(nil, "no sample item laid out")
		return
	}

	next, err := window.Estimate(*geom.Sample, geom.Viewport, v.buffer)
	if err != nil {
		v.skip(err, "estimate skipped")
		return
	}

	v.mu.Lock()
	if v.state != StateReady {
		v.mu.Unlock()
		return
	}
	changed := !v.hasRange || next != v.current
	v.current = next
	v.hasRange = true
	v.stats.Recomputes++
	if changed {
		v.stats.Changes++
		v.notifyRange = next
		v.notifyPending = true
	}
	v.mu.Unlock()

	if changed {
		v.logger.Trace().
			Int("lower", next.Lower).
			Int("upper", next.Upper).
			Float64("scroll_offset", geom.Viewport.ScrollOffset).
			Msg("visible range changed")
	}
}

// deliver passes a queued range to onChange. The callback may call Stop,
// Reset or Recompute.
func (v *Virtualizer) deliver() {
	v.mu.Lock()
	if !v.notifyPending || v.state != StateReady {
		v.mu.Unlock()
		return
	}
	r := v.notifyRange
	v.notifyPending = false
	notify := v.onChange
	v.mu.Unlock()

	if notify != nil {
		notify(r)
	}
}

// Reset discards the current range and recomputes from scratch. Call it when
// the identity of the underlying data set changes.
func (v *Virtualizer) Reset() {
	v.mu.Lock()
	if v.state != StateReady {
		v.mu.Unlock()
		return
	}
	v.current = window.VisibleRange{}
	v.hasRange = false
	v.notifyPending = false
	v.mu.Unlock()

	v.throttler.Cancel()
	v.throttler.Call()
}

// Stop deregisters the listener and cancels pending recomputation. After Stop
// returns no recompute runs. Stop is idempotent.
func (v *Virtualizer) Stop() {
	v.mu.Lock()
	if v.state == StateStopped {
		v.mu.Unlock()
		return
	}
	wasReady := v.state == StateReady
	v.state = StateStopped
	stopOnCtx := v.stopOnCtx
	v.stopOnCtx = nil
	v.mu.Unlock()

	if wasReady {
		v.provider.Unsubscribe()
	}
	v.throttler.Stop()
	if stopOnCtx != nil {
		stopOnCtx()
	}

	v.logger.Debug().Msg("virtualizer stopped")
}

// State returns the lifecycle state.
func (v *Virtualizer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Range returns the current range. ok is false before the first successful
// estimate or when virtualization is unavailable.
//
//nolint:nonamedreturns // Named returns document the ok flag.
func (v *Virtualizer) Range() (r window.VisibleRange, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateReady || !v.hasRange {
		return window.VisibleRange{}, false
	}
	return v.current, true
}

// IsVisible reports whether the item at index should be fully rendered.
// Without a range every item is visible.
func (v *Virtualizer) IsVisible(index int) bool {
	r, ok := v.Range()
	if !ok {
		return true
	}
	return r.Contains(index)
}

// Window returns the effective range for an n-item list: the current range
// when there is one, otherwise every item.
func (v *Virtualizer) Window(n int) window.VisibleRange {
	if r, ok := v.Range(); ok {
		return r
	}
	return window.AllVisible(n)
}

// Stats returns recomputation counters, including the rate limiter's.
func (v *Virtualizer) Stats() Stats {
	v.mu.Lock()
	stats := v.stats
	v.mu.Unlock()

	stats.Stats = v.throttler.Stats()
	return stats
}

func (v *Virtualizer) skip(err error, msg string) {
	v.mu.Lock()
	v.stats.Skipped++
	v.mu.Unlock()

	evt := v.logger.Debug()
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg(msg)
}
