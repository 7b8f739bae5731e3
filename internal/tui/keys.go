package tui

import (
	"github.com/charmbracelet/bubbles/key"

	listview "github.com/rshade/virtuallist/internal/tui/list"
)

// AppKeyMap extends the list bindings with application commands.
type AppKeyMap struct {
	listview.KeyMap

	Sort  key.Binding
	Order key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultAppKeyMap returns the default application bindings.
func DefaultAppKeyMap() AppKeyMap {
	return AppKeyMap{
		KeyMap: listview.DefaultKeyMap(),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort field"),
		),
		Order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort order"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k AppKeyMap) ShortHelp() []key.Binding {
	return append(k.KeyMap.ShortHelp(), k.Sort, k.Help, k.Quit)
}

// FullHelp implements help.KeyMap.
func (k AppKeyMap) FullHelp() [][]key.Binding {
	return append(k.KeyMap.FullHelp(), []key.Binding{k.Sort, k.Order, k.Help, k.Quit})
}
