// Package listview provides a virtualized list component for Bubble Tea.
//
// VirtualListModel is both the Bubble Tea model that draws the list and the
// geometry provider for a virtualizer.Virtualizer: it reports its scroll
// offset, height and measured item height in terminal rows, and signals the
// virtualizer whenever the list scrolls or is resized. Items inside the
// range given to SetRange are rendered in full; items outside it are drawn
// as placeholder rows of the same height.
package listview
