// Package window estimates which items of a uniformly sized list should be
// fully materialized for a given viewport.
//
// The estimate is a pure function of the item stride, the scroll offset, the
// viewport height and a buffer configuration. It widens the strictly visible
// region by whole screens before and after it:
//   - Before screens are materialized above the first visible item
//   - After screens are materialized below it
//   - Items outside the range are rendered as fixed-size placeholders by the consumer
//
// Invalid geometry never panics; Estimate returns an error wrapping
// ErrUnavailable and the caller keeps whatever range it had before.
package window
