package window

import (
	"errors"
	"fmt"
	"math"
)

// Default buffer screens around the visible region.
const (
	DefaultBefore = 2
	DefaultAfter  = 3
)

// Estimation errors. All of them wrap ErrUnavailable so callers can treat
// them uniformly as "no estimate this time".
var (
	ErrUnavailable       = errors.New("visible range unavailable")
	ErrInvalidItemHeight = fmt.Errorf("%w: item height must be a positive finite number", ErrUnavailable)
	ErrInvalidViewport   = fmt.Errorf("%w: viewport height must be a positive finite number", ErrUnavailable)
	ErrInvalidBuffer     = fmt.Errorf("%w: buffer before/after must be positive", ErrUnavailable)
)

// Viewport is the scroll container geometry read from the host on each recompute.
type Viewport struct {
	// ScrollOffset is how far the list has been scrolled past its top.
	ScrollOffset float64 `json:"scroll_offset" yaml:"scroll_offset"`

	// ClientHeight is the visible height of the scroll container.
	ClientHeight float64 `json:"client_height" yaml:"client_height"`
}

// ItemMetrics describes one representative rendered item.
type ItemMetrics struct {
	Height float64 `json:"height" yaml:"height"`
	Gap    float64 `json:"gap"    yaml:"gap"`
}

// Stride returns the distance between the tops of two consecutive items.
func (m ItemMetrics) Stride() float64 {
	return m.Height + m.Gap
}

// Buffer controls how many extra screens are materialized around the visible area.
type Buffer struct {
	Before int `json:"before" yaml:"before"`
	After  int `json:"after"  yaml:"after"`
}

// DefaultBuffer returns the 2-before / 3-after buffer.
func DefaultBuffer() Buffer {
	return Buffer{Before: DefaultBefore, After: DefaultAfter}
}

// Validate reports whether both buffer multipliers are positive.
func (b Buffer) Validate() error {
	if b.Before <= 0 || b.After <= 0 {
		return fmt.Errorf("%w: got before=%d after=%d", ErrInvalidBuffer, b.Before, b.After)
	}
	return nil
}

// VisibleRange is the inclusive window [Lower, Upper] of materialized items.
// Upper may run past the end of the list; use Clamp before indexing.
type VisibleRange struct {
	Lower int `json:"lower" yaml:"lower"`
	Upper int `json:"upper" yaml:"upper"`
}

// AllVisible returns a range covering every item of an n-item list.
func AllVisible(n int) VisibleRange {
	if n <= 0 {
		return VisibleRange{}
	}
	return VisibleRange{Lower: 0, Upper: n - 1}
}

// Contains reports whether index falls inside the range.
func (r VisibleRange) Contains(index int) bool {
	return index >= r.Lower && index <= r.Upper
}

// Len returns the number of indexes covered by the range.
func (r VisibleRange) Len() int {
	return r.Upper - r.Lower + 1
}

// Clamp bounds the range to an n-item list. ok is false when the range lies
// entirely past the end of the list or the list is empty.
//
//nolint:nonamedreturns // Named returns document the clamped bounds.
func (r VisibleRange) Clamp(n int) (lo, hi int, ok bool) {
	if n <= 0 || r.Lower >= n {
		return 0, 0, false
	}
	hi = r.Upper
	if hi >= n {
		hi = n - 1
	}
	return r.Lower, hi, true
}

// String renders the range as "[lower, upper]".
func (r VisibleRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Lower, r.Upper)
}

// Estimate maps the current scroll position and viewport size to the range of
// items to render in full.
//
//	visibleCount = ceil(viewportHeight / itemHeight) - 1
//	firstVisible = floor(max(0, scrollTop / itemHeight))
//	lower        = max(0, firstVisible - before*visibleCount)
//	upper        = firstVisible + after*visibleCount
//
// The item height used is metrics.Stride(). The result depends only on the
// arguments.
func Estimate(metrics ItemMetrics, vp Viewport, buf Buffer) (VisibleRange, error) {
	itemHeight := metrics.Stride()
	if !isPositiveFinite(itemHeight) {
		return VisibleRange{}, fmt.Errorf("%w: got %v", ErrInvalidItemHeight, itemHeight)
	}
	if !isPositiveFinite(vp.ClientHeight) {
		return VisibleRange{}, fmt.Errorf("%w: got %v", ErrInvalidViewport, vp.ClientHeight)
	}
	if math.IsNaN(vp.ScrollOffset) {
		return VisibleRange{}, fmt.Errorf("%w: scroll offset is NaN", ErrInvalidViewport)
	}
	if err := buf.Validate(); err != nil {
		return VisibleRange{}, err
	}

	// A viewport shorter than one item still shows that item.
	visibleCount := max(saturate(math.Ceil(vp.ClientHeight/itemHeight))-1, 0)

	firstVisible := saturate(math.Floor(math.Max(0, vp.ScrollOffset/itemHeight)))

	lower := max(firstVisible-span(buf.Before, visibleCount), 0)
	upper := firstVisible + min(span(buf.After, visibleCount), math.MaxInt32-firstVisible)

	return VisibleRange{Lower: lower, Upper: upper}, nil
}

// saturate converts a non-negative whole float to int, capping at
// math.MaxInt32 so absurd geometry cannot overflow the range arithmetic.
func saturate(v float64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// span returns screens*visibleCount, capped at math.MaxInt32.
func span(screens, visibleCount int) int {
	if visibleCount == 0 {
		return 0
	}
	if screens > math.MaxInt32/visibleCount {
		return math.MaxInt32
	}
	return screens * visibleCount
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
