package virtualizer

import (
	"github.com/rshade/virtuallist/internal/window"
)

// Geometry is a synchronous snapshot of the host's layout.
type Geometry struct {
	// Viewport is the scroll container position and size.
	Viewport window.Viewport

	// Sample is the measured size of one rendered item. It is nil when no
	// item has been laid out yet (empty list, first frame).
	Sample *window.ItemMetrics
}

// Provider supplies viewport geometry and change signals.
// Implementations must be safe to call from the goroutine that delivers
// trailing recomputations.
type Provider interface {
	// CurrentGeometry returns the current layout.
	CurrentGeometry() (Geometry, error)

	// Subscribe registers onChange to be called on every scroll or resize.
	// An error means the host cannot deliver signals at all.
	Subscribe(onChange func()) error

	// Unsubscribe removes the registered listener. It must be safe to call
	// more than once.
	Unsubscribe()
}
