package listview

import (
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/virtuallist/internal/virtualizer"
	"github.com/rshade/virtuallist/internal/window"
)

// wheelStep is the number of rows scrolled per mouse wheel notch.
const wheelStep = 3

// placeholderGlyph fills rows of items outside the materialized range.
const placeholderGlyph = "·"

// ErrAlreadySubscribed is returned when a second listener subscribes.
var ErrAlreadySubscribed = errors.New("list already has a scroll listener")

// RenderFunc renders one item. cursor is true for the item under the cursor;
// marked is true for items toggled into the selection.
type RenderFunc[T any] func(item T, cursor, marked bool) string

// VirtualListModel is a scrollable list whose items are materialized only
// inside the range supplied by SetRange. It implements virtualizer.Provider.
//
// Update and View run on the Bubble Tea goroutine. CurrentGeometry, Subscribe
// and Unsubscribe may be called from any goroutine.
type VirtualListModel[T any] struct {
	items      []T
	renderFunc RenderFunc[T]
	idFunc     func(T) int
	keys       KeyMap

	selected int
	marked   map[int]struct{}
	width    int
	gap      int

	visible     window.VisibleRange
	virtualized bool

	// mu guards the geometry read by the virtualizer and the listener.
	mu           sync.Mutex
	scrollOffset int
	height       int
	sampleHeight int
	onChange     func()
}

// NewVirtualListModel creates a list of items drawn in a height x width box
// with gap blank rows between items. Until SetRange is called every item is
// materialized.
func NewVirtualListModel[T any](items []T, height, width, gap int, renderFunc RenderFunc[T]) *VirtualListModel[T] {
	m := &VirtualListModel[T]{
		renderFunc: renderFunc,
		keys:       DefaultKeyMap(),
		marked:     make(map[int]struct{}),
		width:      width,
		gap:        max(gap, 0),
		height:     max(height, 0),
	}
	m.setItems(items)
	return m
}

// SetIDFunc sets the function used to key the selection. By default items
// are keyed by index.
func (m *VirtualListModel[T]) SetIDFunc(fn func(T) int) {
	m.idFunc = fn
	m.marked = make(map[int]struct{})
}

// SetItems replaces the list contents, resets the cursor and scroll position
// and re-measures the item height. Marks are kept.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.setItems(items)
	m.notify()
}

func (m *VirtualListModel[T]) setItems(items []T) {
	m.items = items
	m.selected = 0
	m.visible = window.AllVisible(len(items))
	m.virtualized = false

	sample := 0
	if len(items) > 0 && m.renderFunc != nil {
		sample = lipgloss.Height(m.renderFunc(items[0], false, false))
	}

	m.mu.Lock()
	m.scrollOffset = 0
	m.sampleHeight = sample
	m.mu.Unlock()
}

// SetRange sets the materialized range.
func (m *VirtualListModel[T]) SetRange(r window.VisibleRange) {
	m.visible = r
	m.virtualized = true
}

// ClearRange materializes every item.
func (m *VirtualListModel[T]) ClearRange() {
	m.visible = window.AllVisible(len(m.items))
	m.virtualized = false
}

// CurrentGeometry implements virtualizer.Provider.
func (m *VirtualListModel[T]) CurrentGeometry() (virtualizer.Geometry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	geom := virtualizer.Geometry{
		Viewport: window.Viewport{
			ScrollOffset: float64(m.scrollOffset),
			ClientHeight: float64(m.height),
		},
	}
	if m.sampleHeight > 0 {
		geom.Sample = &window.ItemMetrics{Height: float64(m.sampleHeight), Gap: float64(m.gap)}
	}
	return geom, nil
}

// Subscribe implements virtualizer.Provider.
func (m *VirtualListModel[T]) Subscribe(onChange func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.onChange != nil {
		return ErrAlreadySubscribed
	}
	m.onChange = onChange
	return nil
}

// Unsubscribe implements virtualizer.Provider.
func (m *VirtualListModel[T]) Unsubscribe() {
	m.mu.Lock()
	m.onChange = nil
	m.mu.Unlock()
}

// Init initializes the model (required for tea.Model interface).
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys, mouse wheel and resize messages.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKeyMsg(msg)
	case tea.MouseMsg:
		m.handleMouseMsg(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

// SetSize resizes the list box.
func (m *VirtualListModel[T]) SetSize(width, height int) {
	m.width = width
	m.mu.Lock()
	m.height = max(height, 0)
	m.mu.Unlock()
	m.scrollTo(m.ScrollOffset())
	m.notify()
}

func (m *VirtualListModel[T]) handleKeyMsg(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}

	page := max(m.Height()/max(m.stride(), 1), 1)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.SetSelected(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		m.SetSelected(m.selected + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.SetSelected(m.selected - page)
	case key.Matches(msg, m.keys.PageDown):
		m.SetSelected(m.selected + page)
	case key.Matches(msg, m.keys.Home):
		m.SetSelected(0)
	case key.Matches(msg, m.keys.End):
		m.SetSelected(len(m.items) - 1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggle(m.selected)
	}
}

//nolint:exhaustive // Only wheel events scroll the list.
func (m *VirtualListModel[T]) handleMouseMsg(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ScrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		m.ScrollBy(wheelStep)
	default:
	}
}

// ScrollBy scrolls the list by delta rows without moving the cursor.
func (m *VirtualListModel[T]) ScrollBy(delta int) {
	before := m.ScrollOffset()
	m.scrollTo(before + delta)
	if m.ScrollOffset() != before {
		m.notify()
	}
}

// SetSelected moves the cursor, capping to valid bounds, and scrolls it
// into view.
func (m *VirtualListModel[T]) SetSelected(index int) {
	if len(m.items) == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(index, 0), len(m.items)-1)

	before := m.ScrollOffset()
	top := m.selected * m.stride()
	bottom := top + m.itemHeight()
	scroll := before
	if top < scroll {
		scroll = top
	}
	if h := m.Height(); bottom > scroll+h {
		scroll = bottom - h
	}
	m.scrollTo(scroll)
	if m.ScrollOffset() != before {
		m.notify()
	}
}

func (m *VirtualListModel[T]) toggle(index int) {
	id := m.idOf(index)
	if _, ok := m.marked[id]; ok {
		delete(m.marked, id)
		return
	}
	m.marked[id] = struct{}{}
}

func (m *VirtualListModel[T]) idOf(index int) int {
	if m.idFunc != nil {
		return m.idFunc(m.items[index])
	}
	return index
}

// scrollTo sets the scroll offset clamped to the scrollable extent.
func (m *VirtualListModel[T]) scrollTo(offset int) {
	maxOffset := max(m.contentHeight()-m.Height(), 0)
	m.mu.Lock()
	m.scrollOffset = min(max(offset, 0), maxOffset)
	m.mu.Unlock()
}

func (m *VirtualListModel[T]) notify() {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// View draws the rows currently inside the viewport.
func (m *VirtualListModel[T]) View() string {
	height := m.Height()
	if len(m.items) == 0 || height == 0 {
		return ""
	}

	scroll := m.ScrollOffset()
	stride := m.stride()
	itemHeight := m.itemHeight()
	lo, hi, ok := m.visible.Clamp(len(m.items))
	if !ok {
		lo, hi = 0, -1
	}

	lines := make([]string, 0, height)
	first := scroll / stride
	for i := first; i < len(m.items) && len(lines) < height+stride; i++ {
		var block []string
		if i >= lo && i <= hi {
			_, marked := m.marked[m.idOf(i)]
			block = fitLines(m.renderFunc(m.items[i], i == m.selected, marked), itemHeight)
		} else {
			block = m.placeholder(itemHeight)
		}
		lines = append(lines, block...)
		for range m.gap {
			lines = append(lines, "")
		}
	}

	// Trim the partially scrolled first item and anything below the box.
	skip := min(scroll-first*stride, len(lines))
	lines = lines[skip:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m *VirtualListModel[T]) placeholder(rows int) []string {
	line := strings.Repeat(placeholderGlyph, max(min(m.width, 3), 1))
	block := make([]string, rows)
	for i := range block {
		block[i] = line
	}
	return block
}

// fitLines splits s into exactly n lines, padding or truncating.
func fitLines(s string, n int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		return lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}

func (m *VirtualListModel[T]) itemHeight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return max(m.sampleHeight, 1)
}

func (m *VirtualListModel[T]) stride() int {
	return m.itemHeight() + m.gap
}

func (m *VirtualListModel[T]) contentHeight() int {
	if len(m.items) == 0 {
		return 0
	}
	return len(m.items)*m.stride() - m.gap
}

// Keys returns the list bindings for help rendering.
func (m *VirtualListModel[T]) Keys() KeyMap {
	return m.keys
}

// ItemCount returns the total number of items in the list.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Items returns the list contents.
func (m *VirtualListModel[T]) Items() []T {
	return m.items
}

// Selected returns the cursor index.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// Marked reports whether the item at index is in the selection.
func (m *VirtualListModel[T]) Marked(index int) bool {
	if index < 0 || index >= len(m.items) {
		return false
	}
	_, ok := m.marked[m.idOf(index)]
	return ok
}

// MarkedCount returns the number of selected items.
func (m *VirtualListModel[T]) MarkedCount() int {
	return len(m.marked)
}

// Range returns the materialized range and whether virtualization is active.
func (m *VirtualListModel[T]) Range() (window.VisibleRange, bool) {
	return m.visible, m.virtualized
}

// Materialized returns the number of items that render in full.
func (m *VirtualListModel[T]) Materialized() int {
	lo, hi, ok := m.visible.Clamp(len(m.items))
	if !ok {
		return 0
	}
	return hi - lo + 1
}

// ScrollOffset returns the scroll position in rows.
func (m *VirtualListModel[T]) ScrollOffset() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrollOffset
}

// Height returns the viewport height.
func (m *VirtualListModel[T]) Height() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.height
}

// Width returns the viewport width.
func (m *VirtualListModel[T]) Width() int {
	return m.width
}

// GetSelectedItem returns the item under the cursor, or nil if the list is empty.
func (m *VirtualListModel[T]) GetSelectedItem() *T {
	if len(m.items) == 0 || m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}
