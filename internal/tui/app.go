package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/virtuallist/internal/dataset"
	listview "github.com/rshade/virtuallist/internal/tui/list"
	"github.com/rshade/virtuallist/internal/virtualizer"
	"github.com/rshade/virtuallist/internal/window"
)

// Default dimensions used before the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// chromeRows is the number of rows used by the header, status and help lines.
const chromeRows = 3

//nolint:gochecknoglobals // Printers are safe for concurrent use.
var numberPrinter = message.NewPrinter(language.English)

// Loader fetches the records to browse.
type Loader func(ctx context.Context) ([]dataset.Reservation, error)

// RecordsLoadedMsg carries the result of the Loader.
type RecordsLoadedMsg struct {
	Records []dataset.Reservation
	Err     error
}

// RangeChangedMsg is sent when a trailing recomputation moves the range.
type RangeChangedMsg struct {
	Range window.VisibleRange
}

// AppModel is the Bubble Tea model for the reservation browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type AppModel struct {
	ctx    context.Context
	loader Loader
	logger zerolog.Logger

	state   ViewState
	list    *listview.VirtualListModel[dataset.Row]
	virt    *virtualizer.Virtualizer
	deriver *dataset.Deriver
	source  []dataset.Reservation

	sortFields []string
	sortIdx    int
	sortOrder  string

	loading  *LoadingState
	help     help.Model
	keys     AppKeyMap
	showHelp bool
	helpView string

	width  int
	height int
	err    error
}

// NewAppModel creates the application model. gap is the number of blank
// rows between list items.
func NewAppModel(ctx context.Context, loader Loader, gap int) AppModel {
	list := listview.NewVirtualListModel(nil, defaultHeight-chromeRows, defaultWidth, gap, renderRow)
	list.SetIDFunc(func(r dataset.Row) int { return r.ID })

	return AppModel{
		ctx:        ctx,
		loader:     loader,
		logger:     zerolog.Nop(),
		state:      ViewStateLoading,
		list:       list,
		deriver:    &dataset.Deriver{},
		sortFields: dataset.SortFields(),
		sortIdx:    -1,
		sortOrder:  dataset.OrderAsc,
		loading:    NewLoadingState("Loading reservations..."),
		help:       help.New(),
		keys:       DefaultAppKeyMap(),
		width:      defaultWidth,
		height:     defaultHeight,
	}
}

// WithVirtualizer attaches v. v must use List() as its provider.
func (m AppModel) WithVirtualizer(v *virtualizer.Virtualizer) AppModel {
	m.virt = v
	return m
}

// WithLogger sets the logger.
func (m AppModel) WithLogger(l zerolog.Logger) AppModel {
	m.logger = l
	return m
}

// List returns the list component, which is the virtualizer's provider.
func (m AppModel) List() *listview.VirtualListModel[dataset.Row] {
	return m.list
}

// Init starts the spinner and the record load (Bubble Tea interface).
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.loadRecords())
}

func (m AppModel) loadRecords() tea.Cmd {
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		if loader == nil {
			return RecordsLoadedMsg{}
		}
		records, err := loader(ctx)
		return RecordsLoadedMsg{Records: records, Err: err}
	}
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width, max(msg.Height-chromeRows, 0))
		if m.showHelp {
			m.helpView = renderHelp(m.width, m.virtState())
		}

	case spinner.TickMsg:
		if m.state == ViewStateLoading {
			cmd = m.loading.Update(msg)
		}

	case RecordsLoadedMsg:
		m = m.handleRecordsLoaded(msg)

	case RangeChangedMsg:
		// Range is re-read below; the message only forces a redraw.

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case tea.MouseMsg:
		if m.state == ViewStateList && !m.showHelp {
			m.list.Update(msg)
		}
	}

	m.syncRange()
	return m, cmd
}

func (m AppModel) handleRecordsLoaded(msg RecordsLoadedMsg) AppModel {
	if msg.Err != nil {
		m.state = ViewStateError
		m.err = msg.Err
		m.logger.Error().Err(msg.Err).Msg("loading records failed")
		return m
	}

	m.source = msg.Records
	m.state = ViewStateList
	m.logger.Info().Int("records", len(msg.Records)).Msg("records loaded")
	m.rebuildRows()
	return m
}

func (m AppModel) handleKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpView = renderHelp(m.width, m.virtState())
	case m.state != ViewStateList:
	case key.Matches(msg, m.keys.Sort):
		m.sortIdx = (m.sortIdx + 1) % len(m.sortFields)
		m.rebuildRows()
	case key.Matches(msg, m.keys.Order):
		if m.sortOrder == dataset.OrderAsc {
			m.sortOrder = dataset.OrderDesc
		} else {
			m.sortOrder = dataset.OrderAsc
		}
		m.rebuildRows()
	default:
		m.list.Update(msg)
	}
	return m, nil
}

// rebuildRows derives the rows for the current sort and resets the
// virtualizer, since the item set has a new identity.
func (m AppModel) rebuildRows() {
	rows := m.deriver.Rows(m.source, m.sortField(), m.sortOrder)
	m.list.SetItems(rows)
	if m.virt != nil {
		m.virt.Reset()
	}

	stats := m.deriver.Stats()
	m.logger.Debug().
		Str("sort", m.sortField()).
		Str("order", m.sortOrder).
		Int("rows", len(rows)).
		Int("derive_hits", stats.Hits).
		Int("derive_misses", stats.Misses).
		Msg("rows rebuilt")
}

func (m AppModel) sortField() string {
	if m.sortIdx < 0 {
		return ""
	}
	return m.sortFields[m.sortIdx]
}

// syncRange copies the virtualizer's range into the list. Without a range
// (no virtualizer, unavailable or not yet estimated) every item renders.
func (m AppModel) syncRange() {
	if m.virt == nil {
		m.list.ClearRange()
		return
	}
	if r, ok := m.virt.Range(); ok {
		m.list.SetRange(r)
		return
	}
	m.list.ClearRange()
}

func (m AppModel) virtState() string {
	if m.virt == nil {
		return "disabled"
	}
	return m.virt.State().String()
}

// View renders the current screen (Bubble Tea interface).
func (m AppModel) View() string {
	switch m.state {
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateError:
		return CriticalStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" +
			SubtleStyle.Render("press q to quit") + "\n"
	case ViewStateQuitting:
		return ""
	case ViewStateList:
	}

	if m.showHelp {
		return BoxStyle.Width(max(m.width-2, 0)).Render(m.helpView)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		padLines(m.list.View(), m.list.Height()),
		m.renderStatus(),
		m.help.View(m.keys),
	)
}

func (m AppModel) renderHeader() string {
	sortLabel := "unsorted"
	if f := m.sortField(); f != "" {
		sortLabel = f + " " + m.sortOrder
	}
	return HeaderStyle.Render("Reservations") + " " +
		LabelStyle.Render(numberPrinter.Sprintf("%d records · sort: %s · selected: %d",
			m.list.ItemCount(), sortLabel, m.list.MarkedCount()))
}

func (m AppModel) renderStatus() string {
	state := m.virtState()
	r, virtualized := m.list.Range()
	rangeLabel := "all"
	if virtualized {
		rangeLabel = r.String()
	}

	parts := []string{
		"range " + rangeLabel,
		numberPrinter.Sprintf("rendered %d/%d", m.list.Materialized(), m.list.ItemCount()),
		"state " + statusColor(state).Render(state),
	}
	if m.virt != nil {
		stats := m.virt.Stats()
		parts = append(parts,
			numberPrinter.Sprintf("runs %d", stats.Runs),
			numberPrinter.Sprintf("dropped %d", stats.Dropped),
			numberPrinter.Sprintf("skipped %d", stats.Skipped),
		)
	}
	text := " " + strings.Join(parts, " · ")
	return StatusStyle.Width(max(m.width, lipgloss.Width(text))).Render(text)
}

// padLines pads s with empty lines up to n lines so the chrome stays put.
func padLines(s string, n int) string {
	if n <= 0 {
		return s
	}
	have := 0
	if s != "" {
		have = strings.Count(s, "\n") + 1
	}
	if have >= n {
		return s
	}
	if s == "" {
		return strings.Repeat("\n", n-1)
	}
	return s + strings.Repeat("\n", n-have)
}
