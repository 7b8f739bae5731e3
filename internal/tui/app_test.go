package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/virtuallist/internal/clock/clocktest"
	"github.com/rshade/virtuallist/internal/dataset"
	"github.com/rshade/virtuallist/internal/virtualizer"
	"github.com/rshade/virtuallist/internal/window"
)

func staticLoader(records []dataset.Reservation) Loader {
	return func(context.Context) ([]dataset.Reservation, error) {
		return records, nil
	}
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// newVirtualizedModel returns a loaded, sized model driven by a fake clock.
func newVirtualizedModel(t *testing.T, n int) (AppModel, *virtualizer.Virtualizer, *clocktest.Fake) {
	t.Helper()
	fake := clocktest.NewFake(time.Unix(0, 0))
	m := NewAppModel(context.Background(), staticLoader(dataset.Generate(n, 1)), 0)

	v, err := virtualizer.New(m.List(), virtualizer.WithClock(fake))
	require.NoError(t, err)
	m = m.WithVirtualizer(v)
	require.NoError(t, v.Start(context.Background()))
	t.Cleanup(v.Stop)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	msg := m.loadRecords()()
	m, _ = update(t, m, msg)
	return m, v, fake
}

func TestNewAppModel_Defaults(t *testing.T) {
	m := NewAppModel(context.Background(), nil, 1)

	assert.Equal(t, ViewStateLoading, m.state)
	assert.Equal(t, defaultWidth, m.width)
	assert.Equal(t, defaultHeight, m.height)
	assert.Equal(t, "", m.sortField())
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Loading reservations")
}

func TestAppModel_LoadRecords(t *testing.T) {
	records := dataset.Generate(25, 3)
	m := NewAppModel(context.Background(), staticLoader(records), 0)

	msg := m.loadRecords()()
	loaded, ok := msg.(RecordsLoadedMsg)
	require.True(t, ok)
	assert.Len(t, loaded.Records, 25)

	m, _ = update(t, m, loaded)
	assert.Equal(t, ViewStateList, m.state)
	assert.Equal(t, 25, m.List().ItemCount())
	assert.Contains(t, m.View(), "25 records")
	assert.Contains(t, m.View(), "state disabled")
}

func TestAppModel_LoadError(t *testing.T) {
	boom := errors.New("disk on fire")
	m := NewAppModel(context.Background(), func(context.Context) ([]dataset.Reservation, error) {
		return nil, boom
	}, 0)

	m, _ = update(t, m, m.loadRecords()())
	assert.Equal(t, ViewStateError, m.state)
	require.ErrorIs(t, m.err, boom)
	assert.Contains(t, m.View(), "disk on fire")

	m, cmd := update(t, m, runeKey('q'))
	assert.Equal(t, ViewStateQuitting, m.state)
	require.NotNil(t, cmd)
}

func TestAppModel_NilLoaderShowsEmptyList(t *testing.T) {
	m := NewAppModel(context.Background(), nil, 0)

	m, _ = update(t, m, m.loadRecords()())
	assert.Equal(t, ViewStateList, m.state)
	assert.Equal(t, 0, m.List().ItemCount())
}

func TestAppModel_VirtualizedRange(t *testing.T) {
	m, v, fake := newVirtualizedModel(t, 100)

	// 21 list rows, 2-row items: ceil(21/2)-1 = 10 per screen.
	r, virtualized := m.List().Range()
	require.True(t, virtualized)
	assert.Equal(t, window.VisibleRange{Lower: 0, Upper: 30}, r)
	assert.Contains(t, m.View(), "range [0, 30]")
	assert.Contains(t, m.View(), "state ready")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	r, _ = m.List().Range()
	assert.Equal(t, window.VisibleRange{Lower: 0, Upper: 30}, r, "trailing run still pending")

	fake.Advance(300 * time.Millisecond)
	m, _ = update(t, m, RangeChangedMsg{})

	// scroll 179 -> first item 89.
	r, _ = m.List().Range()
	assert.Equal(t, window.VisibleRange{Lower: 69, Upper: 119}, r)
	assert.Equal(t, 51, m.List().Materialized())
	assert.Positive(t, v.Stats().Runs)
}

func TestAppModel_UnavailableRendersEverything(t *testing.T) {
	m := NewAppModel(context.Background(), staticLoader(dataset.Generate(40, 1)), 0)
	require.NoError(t, m.List().Subscribe(func() {}))

	v, err := virtualizer.New(m.List(), virtualizer.WithClock(clocktest.NewFake(time.Unix(0, 0))))
	require.NoError(t, err)
	require.ErrorIs(t, v.Start(context.Background()), virtualizer.ErrVirtualizationUnavailable)
	m = m.WithVirtualizer(v)

	m, _ = update(t, m, m.loadRecords()())
	_, virtualized := m.List().Range()
	assert.False(t, virtualized)
	assert.Equal(t, 40, m.List().Materialized())
	assert.Contains(t, m.View(), "state unavailable")
}

func TestAppModel_SortCycles(t *testing.T) {
	m, _, _ := newVirtualizedModel(t, 50)

	m, _ = update(t, m, runeKey('s'))
	assert.Equal(t, dataset.SortFields()[0], m.sortField())
	assert.Contains(t, m.View(), "sort: "+dataset.SortFields()[0]+" asc")

	m, _ = update(t, m, runeKey('o'))
	assert.Equal(t, dataset.OrderDesc, m.sortOrder)

	expected := dataset.SortRows(derived(m.source), m.sortField(), dataset.OrderDesc)
	assert.Equal(t, expected[0].ID, m.List().Items()[0].ID)
	assert.Equal(t, 0, m.List().Selected(), "cursor resets with new rows")

	stats := m.deriver.Stats()
	assert.Equal(t, 3, stats.Misses)

	_, virtualized := m.List().Range()
	assert.True(t, virtualized, "reset recomputes immediately")
}

func TestAppModel_SelectionCount(t *testing.T) {
	m, _, _ := newVirtualizedModel(t, 10)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.Equal(t, 2, m.List().MarkedCount())
	assert.Contains(t, m.View(), "selected: 2")
}

func TestAppModel_HelpOverlay(t *testing.T) {
	m, _, _ := newVirtualizedModel(t, 10)
	listView := m.View()

	m, _ = update(t, m, runeKey('?'))
	assert.True(t, m.showHelp)
	assert.NotEmpty(t, m.helpView)
	assert.NotEqual(t, listView, m.View())

	before := m.List().Selected()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, before, m.List().Selected(), "keys do not reach the list under the overlay")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestAppModel_MouseWheelScrolls(t *testing.T) {
	m, _, _ := newVirtualizedModel(t, 100)

	m, _ = update(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 3, m.List().ScrollOffset())
}

func TestAppModel_Quit(t *testing.T) {
	m, _, _ := newVirtualizedModel(t, 10)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestPadLines(t *testing.T) {
	assert.Equal(t, "a\nb\n\n", padLines("a\nb", 4))
	assert.Equal(t, "\n\n", padLines("", 3))
	assert.Equal(t, "a\nb", padLines("a\nb", 1))
	assert.Equal(t, "", padLines("", 0))
}

func TestRun_QuitsOnKey(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var in, out bytes.Buffer
	in.WriteString("q")

	err := Run(ctx, Options{
		Loader: staticLoader(dataset.Generate(20, 1)),
		Buffer: window.DefaultBuffer(),
		Input:  &in,
		Output: &out,
	})
	require.NoError(t, err)
}

func TestRun_InvalidBuffer(t *testing.T) {
	err := Run(context.Background(), Options{Buffer: window.Buffer{Before: -1}})
	require.ErrorIs(t, err, window.ErrInvalidBuffer)
}

func TestRenderHelp(t *testing.T) {
	out := renderHelp(80, "ready")
	assert.NotEmpty(t, out)
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func derived(records []dataset.Reservation) []dataset.Row {
	rows := make([]dataset.Row, len(records))
	for i, r := range records {
		rows[i] = dataset.Derive(r)
	}
	return rows
}
