package menu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nish-sh/nish/pkg/complete"
)

// menuResult builds a sorted result with count candidates of one type.
func menuResult(t *testing.T, count int) *complete.Result {
	t.Helper()
	result, err := complete.NewResult(count)
	require.NoError(t, err)
	for i := 0; i < count; i++ {
		require.NoError(t, result.Add(complete.Candidate{
			Text: fmt.Sprintf("item-%02d", i),
			Type: complete.TypeCommand,
		}))
	}
	return result
}

// typedResult builds a result with the given per-type counts, pre-sorted.
func typedResult(t *testing.T, counts map[complete.CandidateType]int) *complete.Result {
	t.Helper()
	total := 0
	for _, n := range counts {
		total += n
	}
	result, err := complete.NewResult(total)
	require.NoError(t, err)
	for typ := complete.CandidateType(0); int(typ) < complete.NumTypes; typ++ {
		for i := 0; i < counts[typ]; i++ {
			require.NoError(t, result.Add(complete.Candidate{
				Text: fmt.Sprintf("%s-%02d", typ, i),
				Type: typ,
			}))
		}
	}
	result.Sort()
	return result
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, 10)
	assert.ErrorIs(t, err, complete.ErrInvalidParameter)

	empty, rerr := complete.NewResult(4)
	require.NoError(t, rerr)
	_, err = New(empty, 10)
	assert.ErrorIs(t, err, complete.ErrInvalidParameter)
}

func TestViewportScrolling(t *testing.T) {
	m, err := New(menuResult(t, 23), 10)
	require.NoError(t, err)

	require.NoError(t, m.Select(21))
	assert.Equal(t, 21, m.Selected())
	assert.Equal(t, 13, m.FirstVisible(), "window clamps to [13,23)")

	require.NoError(t, m.Select(0))
	assert.Equal(t, 0, m.FirstVisible())
}

func TestViewportInvariant(t *testing.T) {
	m, err := New(menuResult(t, 23), 10)
	require.NoError(t, err)

	ops := []func() error{
		m.MoveDown, m.MoveUp, m.PageDown, m.PageUp,
		m.SelectLast, m.SelectFirst, m.MoveDown, m.PageDown, m.PageDown,
	}
	for i, op := range ops {
		require.NoError(t, op())
		sel, first := m.Selected(), m.FirstVisible()
		assert.GreaterOrEqual(t, sel, first, "op %d", i)
		assert.Less(t, sel, first+m.VisibleCount(), "op %d", i)
		assert.LessOrEqual(t, first+m.VisibleCount(), 23, "op %d", i)
	}
}

func TestMoveWraps(t *testing.T) {
	m, err := New(menuResult(t, 5), 10)
	require.NoError(t, err)

	require.NoError(t, m.MoveUp())
	assert.Equal(t, 4, m.Selected(), "moving up from the first item wraps to the last")

	require.NoError(t, m.MoveDown())
	assert.Equal(t, 0, m.Selected(), "moving down from the last item wraps to the first")
}

func TestPageClampsWithoutWrapping(t *testing.T) {
	m, err := New(menuResult(t, 23), 10)
	require.NoError(t, err)

	require.NoError(t, m.PageDown())
	assert.Equal(t, 10, m.Selected())
	require.NoError(t, m.PageDown())
	assert.Equal(t, 20, m.Selected())
	require.NoError(t, m.PageDown())
	assert.Equal(t, 22, m.Selected(), "paging clamps at the last item")

	require.NoError(t, m.PageUp())
	require.NoError(t, m.PageUp())
	require.NoError(t, m.PageUp())
	assert.Equal(t, 0, m.Selected(), "paging clamps at the first item")
}

func TestColumnMovement(t *testing.T) {
	m, err := New(menuResult(t, 20), 10)
	require.NoError(t, err)
	m.SetColumns(2)

	require.NoError(t, m.MoveRight())
	assert.Equal(t, 5, m.Selected(), "one column over is one column-stride down the list")

	require.NoError(t, m.MoveLeft())
	assert.Equal(t, 0, m.Selected())

	require.NoError(t, m.MoveLeft())
	assert.Equal(t, 15, m.Selected(), "moving left wraps")
}

func TestColumnMovementFollowsRenderedLayout(t *testing.T) {
	// 6 items in a 10-high window: the renderer lays them out in 3 columns
	// of 2 rows, so one step right must skip 2 items, not visibleCount/3.
	m, err := New(menuResult(t, 6), 10)
	require.NoError(t, err)

	_, stats := Render(m, Options{MultiColumn: true, Width: 30})
	require.Equal(t, 3, stats.ColumnsUsed)
	m.SetColumns(stats.ColumnsUsed)

	require.NoError(t, m.MoveRight())
	assert.Equal(t, 2, m.Selected(), "one step right is the top of the next rendered column")
	require.NoError(t, m.MoveRight())
	assert.Equal(t, 4, m.Selected())
	require.NoError(t, m.MoveLeft())
	assert.Equal(t, 2, m.Selected())
	require.NoError(t, m.MoveLeft())
	assert.Equal(t, 0, m.Selected())
}

func TestColumnMovementSingleColumn(t *testing.T) {
	m, err := New(menuResult(t, 5), 10)
	require.NoError(t, err)

	// One column holds the whole window, so a horizontal step wraps through
	// it back to the same item.
	require.NoError(t, m.MoveRight())
	assert.Equal(t, 0, m.Selected())
	require.NoError(t, m.MoveLeft())
	assert.Equal(t, 0, m.Selected())
}

func TestCategoryJumps(t *testing.T) {
	result := typedResult(t, map[complete.CandidateType]int{
		complete.TypeBuiltin: 2,
		complete.TypeCommand: 3,
		complete.TypeFile:    2,
	})
	m, err := New(result, 10)
	require.NoError(t, err)
	require.Equal(t, 3, m.CategoryCount())

	require.NoError(t, m.NextCategory())
	assert.Equal(t, 2, m.Selected(), "first command")
	require.NoError(t, m.NextCategory())
	assert.Equal(t, 5, m.Selected(), "first file")
	require.NoError(t, m.NextCategory())
	assert.Equal(t, 0, m.Selected(), "wraps to the first category")

	require.NoError(t, m.PrevCategory())
	assert.Equal(t, 5, m.Selected(), "wraps back to the last category")

	require.NoError(t, m.MoveDown())
	require.NoError(t, m.PrevCategory())
	assert.Equal(t, 5, m.Selected(), "from inside a category, jump to its start first")
}

func TestAcceptReturnsSelection(t *testing.T) {
	m, err := New(menuResult(t, 5), 10)
	require.NoError(t, err)
	require.NoError(t, m.MoveDown())

	c, err := m.Accept()
	require.NoError(t, err)
	assert.Equal(t, "item-01", c.Text)
	assert.False(t, m.Active())
}

func TestCancelIsIdempotent(t *testing.T) {
	m, err := New(menuResult(t, 5), 10)
	require.NoError(t, err)

	m.Cancel()
	assert.False(t, m.Active())
	m.Cancel()
	assert.False(t, m.Active())
}

func TestHandleCharCancelsAndReturnsRune(t *testing.T) {
	m, err := New(menuResult(t, 5), 10)
	require.NoError(t, err)

	r, err := m.HandleChar('x')
	require.NoError(t, err)
	assert.Equal(t, 'x', r)
	assert.False(t, m.Active())
}

func TestOperationsOnInactiveMenuFail(t *testing.T) {
	m, err := New(menuResult(t, 5), 10)
	require.NoError(t, err)
	m.Cancel()

	assert.ErrorIs(t, m.MoveDown(), complete.ErrInvalidParameter)
	assert.ErrorIs(t, m.MoveUp(), complete.ErrInvalidParameter)
	assert.ErrorIs(t, m.PageDown(), complete.ErrInvalidParameter)
	assert.ErrorIs(t, m.NextCategory(), complete.ErrInvalidParameter)
	assert.ErrorIs(t, m.Select(0), complete.ErrInvalidParameter)

	_, err = m.Accept()
	assert.ErrorIs(t, err, complete.ErrInvalidParameter)
	_, err = m.HandleChar('x')
	assert.ErrorIs(t, err, complete.ErrInvalidParameter)
}

func TestSelectOutOfRange(t *testing.T) {
	m, err := New(menuResult(t, 5), 10)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Select(-1), complete.ErrInvalidParameter)
	assert.ErrorIs(t, m.Select(5), complete.ErrInvalidParameter)
}
