// Package virtualizer owns the lifecycle of list virtualization for one view.
//
// A Virtualizer reads geometry from an injected Provider, estimates the
// visible range with package window, and rate-limits recomputation triggered
// by scroll and resize signals through package throttle. Start subscribes to
// the provider and performs the initial estimate; Stop deregisters the
// listener and cancels any pending recomputation so nothing fires against a
// disposed view.
//
// When the provider cannot deliver signals the Virtualizer reports
// ErrVirtualizationUnavailable and treats every item as visible.
package virtualizer
