package menu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nish-sh/nish/pkg/complete"
)

func TestRenderInactiveMenu(t *testing.T) {
	out, stats := Render(nil, Options{})
	assert.Empty(t, out)
	assert.Zero(t, stats)

	m, err := New(menuResult(t, 3), 10)
	require.NoError(t, err)
	m.Cancel()

	out, stats = Render(m, Options{})
	assert.Empty(t, out)
	assert.Zero(t, stats.ItemsRendered)
}

func TestRenderSingleColumn(t *testing.T) {
	m, err := New(menuResult(t, 4), 10)
	require.NoError(t, err)

	out, stats := Render(m, Options{SelectionPrefix: "> ", Width: 80})
	assert.Equal(t, 4, stats.ItemsRendered)
	assert.Equal(t, 4, stats.RowsUsed)
	assert.Equal(t, 1, stats.ColumnsUsed)
	assert.False(t, stats.Truncated)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "> "), "the selected row carries the prefix")
	assert.Contains(t, lines[1], "item-01")
}

func TestRenderOnlyVisibleWindow(t *testing.T) {
	m, err := New(menuResult(t, 23), 10)
	require.NoError(t, err)
	require.NoError(t, m.Select(21))

	out, stats := Render(m, Options{Width: 80})
	assert.Equal(t, 10, stats.ItemsRendered, "only the window renders")
	assert.Contains(t, out, "item-21")
	assert.NotContains(t, out, "item-00")
	assert.NotContains(t, out, "item-12", "items above the window stay hidden")
}

func TestRenderMultiColumn(t *testing.T) {
	m, err := New(menuResult(t, 10), 10)
	require.NoError(t, err)

	_, stats := Render(m, Options{MultiColumn: true, Width: 40})
	assert.Greater(t, stats.ColumnsUsed, 1)
	assert.Equal(t, 10, stats.ItemsRendered)
	assert.Less(t, stats.RowsUsed, 10)
}

func TestRenderDescriptionsForceSingleColumn(t *testing.T) {
	result, err := complete.NewResult(4)
	require.NoError(t, err)
	for _, text := range []string{"add", "commit", "push", "pull"} {
		require.NoError(t, result.Add(complete.Candidate{
			Text:        text,
			Type:        complete.TypeCustom,
			Description: "git subcommand",
		}))
	}
	m, err := New(result, 10)
	require.NoError(t, err)

	out, stats := Render(m, Options{MultiColumn: true, Width: 200})
	assert.Equal(t, 1, stats.ColumnsUsed)
	assert.Contains(t, out, "git subcommand")
}

func TestRenderCategoryHeaders(t *testing.T) {
	result := typedResult(t, map[complete.CandidateType]int{
		complete.TypeBuiltin: 2,
		complete.TypeCommand: 2,
	})
	m, err := New(result, 10)
	require.NoError(t, err)

	out, stats := Render(m, Options{ShowHeaders: true, Width: 80})
	assert.Equal(t, 2, stats.CategoriesShown)
	assert.Contains(t, out, "builtin")
	assert.Contains(t, out, "command")
	// Two headers plus four item rows.
	assert.Equal(t, 6, stats.RowsUsed)
}

func TestRenderTypeIndicators(t *testing.T) {
	m, err := New(menuResult(t, 2), 10)
	require.NoError(t, err)

	out, _ := Render(m, Options{ShowTypeIndicators: true, Width: 80})
	assert.Contains(t, out, complete.TypeCommand.Indicator()+" item-00")
}

func TestRenderTruncation(t *testing.T) {
	m, err := New(menuResult(t, 10), 10)
	require.NoError(t, err)

	_, stats := Render(m, Options{MaxRows: 4, Width: 80})
	assert.True(t, stats.Truncated)
	assert.LessOrEqual(t, stats.RowsUsed, 4)
	assert.Less(t, stats.ItemsRendered, 10)
}

func TestRenderStatsMatchLayout(t *testing.T) {
	m, err := New(menuResult(t, 23), 10)
	require.NoError(t, err)

	out, stats := Render(m, DefaultOptions(120))
	assert.Equal(t, 10, stats.ItemsRendered)
	assert.Equal(t, 1, stats.CategoriesShown)
	assert.Equal(t, len(strings.Split(out, "\n")), stats.RowsUsed)
}
