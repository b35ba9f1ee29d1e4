// Package menu implements the interactive completion menu: a navigation
// state machine over a sorted result set and a pure renderer that lays the
// visible window out for the terminal.
package menu

import (
	"github.com/nish-sh/nish/pkg/complete"
)

const (
	// DefaultVisibleCount is the window height used when the caller does
	// not size the menu explicitly.
	DefaultVisibleCount = 10
	// MinItemsForMenu is the smallest result set worth a menu; below it
	// the editor cycles inline instead.
	MinItemsForMenu = 2
)

// Model is the menu's navigation state. It borrows the result set and never
// mutates it; all operations move the selection and re-clamp the viewport so
// the selection stays visible.
type Model struct {
	result       *complete.Result
	selected     int
	firstVisible int
	visibleCount int
	columns      int
	categories   []int
	active       bool
}

// New activates a menu over a sorted result set. The result must hold at
// least one candidate; callers wanting the inline-cycling threshold check
// MinItemsForMenu themselves.
func New(result *complete.Result, visibleCount int) (*Model, error) {
	if result == nil || result.Len() == 0 {
		return nil, complete.ErrInvalidParameter
	}
	if visibleCount <= 0 {
		visibleCount = DefaultVisibleCount
	}
	return &Model{
		result:       result,
		visibleCount: visibleCount,
		columns:      1,
		categories:   result.CategoryPositions(),
		active:       true,
	}, nil
}

// guard rejects operations on an inactive or empty menu. Navigating a stale
// menu is a caller bug, not a no-op.
func (m *Model) guard() error {
	if m == nil || m.result == nil || m.result.Len() == 0 || !m.active {
		return complete.ErrInvalidParameter
	}
	return nil
}

func (m *Model) Active() bool       { return m != nil && m.active }
func (m *Model) Selected() int      { return m.selected }
func (m *Model) FirstVisible() int  { return m.firstVisible }
func (m *Model) VisibleCount() int  { return m.visibleCount }
func (m *Model) Columns() int       { return m.columns }
func (m *Model) CategoryCount() int { return len(m.categories) }

// Result exposes the borrowed result set, for the renderer.
func (m *Model) Result() *complete.Result { return m.result }

// SelectedCandidate returns the candidate under the cursor.
func (m *Model) SelectedCandidate() (complete.Candidate, error) {
	if err := m.guard(); err != nil {
		return complete.Candidate{}, err
	}
	return m.result.At(m.selected)
}

// SetColumns records the column count the renderer chose, so horizontal
// movement strides by one on-screen column.
func (m *Model) SetColumns(columns int) {
	if columns < 1 {
		columns = 1
	}
	m.columns = columns
}

// MoveDown advances the selection by one, wrapping at the end.
func (m *Model) MoveDown() error {
	if err := m.guard(); err != nil {
		return err
	}
	m.selected = (m.selected + 1) % m.result.Len()
	m.scrollMinimal()
	return nil
}

// MoveUp retreats the selection by one, wrapping at the start.
func (m *Model) MoveUp() error {
	if err := m.guard(); err != nil {
		return err
	}
	m.selected = (m.selected - 1 + m.result.Len()) % m.result.Len()
	m.scrollMinimal()
	return nil
}

// MoveRight moves one on-screen column to the right, wrapping.
func (m *Model) MoveRight() error {
	if err := m.guard(); err != nil {
		return err
	}
	m.selected = (m.selected + m.columnStride()) % m.result.Len()
	m.scrollMinimal()
	return nil
}

// MoveLeft moves one on-screen column to the left, wrapping.
func (m *Model) MoveLeft() error {
	if err := m.guard(); err != nil {
		return err
	}
	stride := m.columnStride()
	m.selected = (m.selected - stride%m.result.Len() + m.result.Len()) % m.result.Len()
	m.scrollMinimal()
	return nil
}

// columnStride is how many items one horizontal step skips: the row count of
// the rendered window, ceil(window/columns). The window can hold fewer items
// than visibleCount, so the stride follows the items actually on screen.
func (m *Model) columnStride() int {
	window := m.result.Len() - m.firstVisible
	if window > m.visibleCount {
		window = m.visibleCount
	}
	stride := (window + m.columns - 1) / m.columns
	if stride < 1 {
		stride = 1
	}
	return stride
}

// PageDown advances by one window, clamping at the last item.
func (m *Model) PageDown() error {
	if err := m.guard(); err != nil {
		return err
	}
	m.selected += m.visibleCount
	if max := m.result.Len() - 1; m.selected > max {
		m.selected = max
	}
	m.scrollMinimal()
	return nil
}

// PageUp retreats by one window, clamping at the first item.
func (m *Model) PageUp() error {
	if err := m.guard(); err != nil {
		return err
	}
	m.selected -= m.visibleCount
	if m.selected < 0 {
		m.selected = 0
	}
	m.scrollMinimal()
	return nil
}

// SelectFirst jumps to the first item.
func (m *Model) SelectFirst() error {
	if err := m.guard(); err != nil {
		return err
	}
	m.selected = 0
	m.scrollMinimal()
	return nil
}

// SelectLast jumps to the last item.
func (m *Model) SelectLast() error {
	if err := m.guard(); err != nil {
		return err
	}
	m.selected = m.result.Len() - 1
	m.scrollMinimal()
	return nil
}

// Select jumps directly to index. Unlike single-step movement, a jump
// scrolls the target to the top of the window (clamped so the window never
// runs past the end of the list).
func (m *Model) Select(index int) error {
	if err := m.guard(); err != nil {
		return err
	}
	if index < 0 || index >= m.result.Len() {
		return complete.ErrInvalidParameter
	}
	m.selected = index
	m.scrollToTop()
	return nil
}

// NextCategory jumps to the first item of the following category, wrapping.
func (m *Model) NextCategory() error {
	if err := m.guard(); err != nil {
		return err
	}
	for _, pos := range m.categories {
		if pos > m.selected {
			m.selected = pos
			m.scrollMinimal()
			return nil
		}
	}
	m.selected = m.categories[0]
	m.scrollMinimal()
	return nil
}

// PrevCategory jumps to the first item of the preceding category, wrapping.
func (m *Model) PrevCategory() error {
	if err := m.guard(); err != nil {
		return err
	}
	current := 0
	for i, pos := range m.categories {
		if pos <= m.selected {
			current = i
		}
	}
	// From inside a category, jump to its own start first.
	if m.categories[current] < m.selected {
		m.selected = m.categories[current]
	} else if current > 0 {
		m.selected = m.categories[current-1]
	} else {
		m.selected = m.categories[len(m.categories)-1]
	}
	m.scrollMinimal()
	return nil
}

// Accept returns the selected candidate and deactivates the menu. Inserting
// the text into the buffer is the caller's job.
func (m *Model) Accept() (complete.Candidate, error) {
	if err := m.guard(); err != nil {
		return complete.Candidate{}, err
	}
	c, err := m.result.At(m.selected)
	if err != nil {
		return complete.Candidate{}, err
	}
	m.active = false
	return c, nil
}

// Cancel deactivates the menu unconditionally. Safe to call twice.
func (m *Model) Cancel() {
	if m != nil {
		m.active = false
	}
}

// HandleChar implements the character policy: any ordinary input cancels the
// menu, and the rune is handed back for the caller to insert as usual.
// Incremental filtering is a reserved extension point.
func (m *Model) HandleChar(r rune) (rune, error) {
	if err := m.guard(); err != nil {
		return 0, err
	}
	m.active = false
	return r, nil
}

// scrollMinimal re-clamps the viewport after a step, scrolling the least
// amount that keeps the selection inside the window.
func (m *Model) scrollMinimal() {
	if m.selected < m.firstVisible {
		m.firstVisible = m.selected
	} else if m.selected >= m.firstVisible+m.visibleCount {
		m.firstVisible = m.selected - m.visibleCount + 1
	}
	m.clampWindow()
}

// scrollToTop positions the selection at the top of the window.
func (m *Model) scrollToTop() {
	m.firstVisible = m.selected
	m.clampWindow()
}

func (m *Model) clampWindow() {
	if max := m.result.Len() - m.visibleCount; m.firstVisible > max {
		m.firstVisible = max
	}
	if m.firstVisible < 0 {
		m.firstVisible = 0
	}
}
