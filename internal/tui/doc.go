// Package tui implements the interactive reservation browser.
//
// AppModel loads records behind a spinner, shows them in a virtualized
// listview, and reports the virtualizer's range and counters in a status
// line. Run wires the model, the virtualizer and a tea.Program together.
package tui
