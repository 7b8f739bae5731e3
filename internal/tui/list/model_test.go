package listview_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/virtuallist/internal/clock/clocktest"
	listview "github.com/rshade/virtuallist/internal/tui/list"
	"github.com/rshade/virtuallist/internal/virtualizer"
	"github.com/rshade/virtuallist/internal/window"
)

func plainRender(item string, cursor, _ bool) string {
	if cursor {
		return "> " + item
	}
	return "  " + item
}

func makeItems(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("item%d", i)
	}
	return items
}

// TestVirtualListModel_NewModel tests VirtualListModel initialization.
func TestVirtualListModel_NewModel(t *testing.T) {
	model := listview.NewVirtualListModel(makeItems(5), 20, 80, 0, plainRender)

	assert.Equal(t, 5, model.ItemCount())
	assert.Equal(t, 20, model.Height())
	assert.Equal(t, 80, model.Width())
	assert.Equal(t, 0, model.Selected())
	assert.Equal(t, 0, model.ScrollOffset())

	r, virtualized := model.Range()
	assert.False(t, virtualized)
	assert.Equal(t, window.VisibleRange{Lower: 0, Upper: 4}, r)
	assert.Equal(t, 5, model.Materialized())
}

// TestVirtualListModel_SelectionLogic tests cursor movement keys.
func TestVirtualListModel_SelectionLogic(t *testing.T) {
	model := listview.NewVirtualListModel(makeItems(50), 20, 80, 0, plainRender)

	tests := []struct {
		name          string
		key           tea.KeyMsg
		initialIndex  int
		expectedIndex int
	}{
		{name: "down arrow moves forward", key: tea.KeyMsg{Type: tea.KeyDown}, initialIndex: 5, expectedIndex: 6},
		{name: "up arrow moves backward", key: tea.KeyMsg{Type: tea.KeyUp}, initialIndex: 10, expectedIndex: 9},
		{name: "j key moves forward", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, initialIndex: 5, expectedIndex: 6},
		{name: "k key moves backward", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, initialIndex: 10, expectedIndex: 9},
		{name: "home key goes to start", key: tea.KeyMsg{Type: tea.KeyHome}, initialIndex: 25, expectedIndex: 0},
		{name: "end key goes to last", key: tea.KeyMsg{Type: tea.KeyEnd}, initialIndex: 5, expectedIndex: 49},
		{name: "up at start stays at 0", key: tea.KeyMsg{Type: tea.KeyUp}, initialIndex: 0, expectedIndex: 0},
		{name: "down at end stays at end", key: tea.KeyMsg{Type: tea.KeyDown}, initialIndex: 49, expectedIndex: 49},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model.SetSelected(tt.initialIndex)
			_, cmd := model.Update(tt.key)

			assert.Nil(t, cmd)
			assert.Equal(t, tt.expectedIndex, model.Selected())
		})
	}
}

// TestVirtualListModel_PageUpDown tests page navigation.
func TestVirtualListModel_PageUpDown(t *testing.T) {
	model := listview.NewVirtualListModel(makeItems(100), 20, 80, 0, plainRender)

	tests := []struct {
		name          string
		key           tea.KeyMsg
		initialIndex  int
		expectedIndex int
	}{
		{name: "page down moves viewport height", key: tea.KeyMsg{Type: tea.KeyPgDown}, initialIndex: 10, expectedIndex: 30},
		{name: "page up moves viewport height", key: tea.KeyMsg{Type: tea.KeyPgUp}, initialIndex: 50, expectedIndex: 30},
		{name: "page down at end caps to last", key: tea.KeyMsg{Type: tea.KeyPgDown}, initialIndex: 90, expectedIndex: 99},
		{name: "page up at start caps to first", key: tea.KeyMsg{Type: tea.KeyPgUp}, initialIndex: 5, expectedIndex: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model.SetSelected(tt.initialIndex)
			_, _ = model.Update(tt.key)

			assert.Equal(t, tt.expectedIndex, model.Selected())
		})
	}
}

// TestVirtualListModel_PageSizeCountsItemsNotRows tests paging with tall items.
func TestVirtualListModel_PageSizeCountsItemsNotRows(t *testing.T) {
	tall := func(item string, _, _ bool) string { return item + "\ndetail" }
	model := listview.NewVirtualListModel(makeItems(100), 12, 80, 1, tall)

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 4, model.Selected(), "12 rows / (2 rows + 1 gap)")
}

// TestVirtualListModel_CursorScrollsIntoView tests that moving the cursor scrolls.
func TestVirtualListModel_CursorScrollsIntoView(t *testing.T) {
	tall := func(item string, _, _ bool) string { return item + "\ndetail" }
	model := listview.NewVirtualListModel(makeItems(100), 10, 80, 1, tall)

	model.SetSelected(10)
	assert.Equal(t, 22, model.ScrollOffset(), "bottom of item 10 (row 32) aligns with the bottom edge")

	model.SetSelected(2)
	assert.Equal(t, 6, model.ScrollOffset(), "top of item 2 aligns with the top edge")

	model.SetSelected(99)
	assert.Equal(t, 289, model.ScrollOffset(), "clamped to content height minus viewport")
}

// TestVirtualListModel_MouseWheel tests wheel scrolling without cursor movement.
func TestVirtualListModel_MouseWheel(t *testing.T) {
	model := listview.NewVirtualListModel(makeItems(100), 20, 80, 0, plainRender)

	_, _ = model.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 3, model.ScrollOffset())
	assert.Equal(t, 0, model.Selected())

	_, _ = model.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	_, _ = model.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 0, model.ScrollOffset(), "never scrolls above the top")
}

// TestVirtualListModel_WindowResize tests viewport height adjustment.
func TestVirtualListModel_WindowResize(t *testing.T) {
	model := listview.NewVirtualListModel(makeItems(100), 20, 80, 0, plainRender)
	model.ScrollBy(90)
	assert.Equal(t, 80, model.ScrollOffset())

	_, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	assert.Equal(t, 30, model.Height())
	assert.Equal(t, 120, model.Width())
	assert.Equal(t, 70, model.ScrollOffset(), "scroll re-clamped to the taller viewport")
}

// TestVirtualListModel_EmptyList tests behavior with no items.
func TestVirtualListModel_EmptyList(t *testing.T) {
	model := listview.NewVirtualListModel([]string{}, 20, 80, 0, plainRender)

	assert.Equal(t, 0, model.ItemCount())
	assert.Equal(t, 0, model.Materialized())
	assert.Nil(t, model.GetSelectedItem())
	assert.Empty(t, model.View())

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Nil(t, cmd)

	geom, err := model.CurrentGeometry()
	require.NoError(t, err)
	assert.Nil(t, geom.Sample, "nothing laid out yet")
}

// TestVirtualListModel_Toggle tests marking items by ID.
func TestVirtualListModel_Toggle(t *testing.T) {
	model := listview.NewVirtualListModel(makeItems(10), 20, 80, 0, plainRender)
	model.SetIDFunc(func(s string) int { return len(s) * 100 })

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	_, _ = model.Update(space)
	assert.True(t, model.Marked(0))
	assert.Equal(t, 1, model.MarkedCount())

	_, _ = model.Update(space)
	assert.False(t, model.Marked(0))
	assert.False(t, model.Marked(-1))
}

// TestVirtualListModel_Geometry tests the provider view of the list.
func TestVirtualListModel_Geometry(t *testing.T) {
	tall := func(item string, _, _ bool) string { return item + "\ndetail" }
	model := listview.NewVirtualListModel(makeItems(100), 10, 80, 1, tall)
	model.SetSelected(10)

	geom, err := model.CurrentGeometry()
	require.NoError(t, err)
	assert.Equal(t, window.Viewport{ScrollOffset: 22, ClientHeight: 10}, geom.Viewport)
	require.NotNil(t, geom.Sample)
	assert.Equal(t, window.ItemMetrics{Height: 2, Gap: 1}, *geom.Sample)
}

// TestVirtualListModel_Subscribe tests listener registration and change signals.
func TestVirtualListModel_Subscribe(t *testing.T) {
	model := listview.NewVirtualListModel(makeItems(100), 20, 80, 0, plainRender)

	signals := 0
	require.NoError(t, model.Subscribe(func() { signals++ }))
	require.ErrorIs(t, model.Subscribe(func() {}), listview.ErrAlreadySubscribed)

	model.SetSelected(5)
	assert.Equal(t, 0, signals, "cursor moved inside the viewport, no scroll")

	model.SetSelected(40)
	assert.Equal(t, 1, signals)

	model.ScrollBy(1)
	model.SetSize(80, 25)
	assert.Equal(t, 3, signals)

	model.Unsubscribe()
	model.Unsubscribe()
	model.ScrollBy(1)
	assert.Equal(t, 3, signals)
	require.NoError(t, model.Subscribe(func() {}))
}

// TestVirtualListModel_DrivesVirtualizer runs the list as a real provider.
func TestVirtualListModel_DrivesVirtualizer(t *testing.T) {
	fake := clocktest.NewFake(time.Unix(0, 0))
	model := listview.NewVirtualListModel(makeItems(1000), 20, 80, 0, plainRender)

	var changes []window.VisibleRange
	v, err := virtualizer.New(model,
		virtualizer.WithClock(fake),
		virtualizer.WithOnChange(func(r window.VisibleRange) { changes = append(changes, r) }),
	)
	require.NoError(t, err)
	require.NoError(t, v.Start(context.Background()))
	t.Cleanup(v.Stop)

	// ceil(20/1)-1 = 19 items per screen, 3 screens after.
	r, ok := v.Range()
	require.True(t, ok)
	assert.Equal(t, window.VisibleRange{Lower: 0, Upper: 57}, r)

	model.SetSelected(500)
	r, _ = v.Range()
	assert.Equal(t, window.VisibleRange{Lower: 0, Upper: 57}, r, "throttled until the window closes")

	fake.Advance(300 * time.Millisecond)
	r, _ = v.Range()
	assert.Equal(t, window.VisibleRange{Lower: 443, Upper: 538}, r)
	assert.Len(t, changes, 2)

	v.Stop()
	model.ScrollBy(-100)
	require.NoError(t, model.Subscribe(func() {}), "virtualizer unsubscribed on stop")
}
