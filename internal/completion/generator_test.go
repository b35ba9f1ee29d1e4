package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nish-sh/nish/pkg/complete"
)

func TestGeneratorDeduplicatesAcrossSources(t *testing.T) {
	// echo exists both as a builtin and as an external command; it must
	// surface exactly once, as the higher-scored builtin.
	builtins := &fakeSource{
		name:       "builtins",
		kind:       complete.TypeBuiltin,
		applicable: true,
		candidates: []complete.Candidate{
			{Text: "echo", Type: complete.TypeBuiltin, Score: 900},
			{Text: "eval", Type: complete.TypeBuiltin, Score: 900},
		},
	}
	commands := &fakeSource{
		name:       "commands",
		kind:       complete.TypeCommand,
		applicable: true,
		candidates: []complete.Candidate{
			{Text: "echo", Type: complete.TypeCommand, Score: 800},
			{Text: "emacs", Type: complete.TypeCommand, Score: 800},
		},
	}

	m := NewManager(nil)
	require.NoError(t, m.Register(builtins))
	require.NoError(t, m.Register(commands))

	g := NewGenerator(m, nil)
	result, cctx, err := g.Generate(context.Background(), "e", 1)
	require.NoError(t, err)

	assert.Equal(t, complete.ContextCommand, cctx.Type)
	assert.Equal(t, []string{"echo", "eval", "emacs"}, result.Texts())

	echo, err := result.At(0)
	require.NoError(t, err)
	assert.Equal(t, complete.TypeBuiltin, echo.Type)
	assert.Equal(t, 900, echo.Score)
}

func TestGeneratorSortsByTypeScoreText(t *testing.T) {
	src := &fakeSource{
		name:       "mixed",
		applicable: true,
		candidates: []complete.Candidate{
			{Text: "zz.txt", Type: complete.TypeFile, Score: 500},
			{Text: "cd", Type: complete.TypeBuiltin, Score: 900},
			{Text: "aa.txt", Type: complete.TypeFile, Score: 500},
			{Text: "cat", Type: complete.TypeCommand, Score: 800},
		},
	}

	m := NewManager(nil)
	require.NoError(t, m.Register(src))

	g := NewGenerator(m, nil)
	result, _, err := g.Generate(context.Background(), "", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"cd", "cat", "aa.txt", "zz.txt"}, result.Texts())
}

func TestGeneratorMarksExactMatch(t *testing.T) {
	src := &fakeSource{
		name:       "commands",
		applicable: true,
		candidates: []complete.Candidate{
			{Text: "gitk", Type: complete.TypeCommand, Score: 900},
			{Text: "git", Type: complete.TypeCommand, Score: 800},
		},
	}

	m := NewManager(nil)
	require.NoError(t, m.Register(src))

	g := NewGenerator(m, nil)
	result, _, err := g.Generate(context.Background(), "git", 3)
	require.NoError(t, err)

	// The exact match outranks a higher-scored sibling within its type.
	first, err := result.At(0)
	require.NoError(t, err)
	assert.Equal(t, "git", first.Text)
	assert.True(t, first.Exact)
	assert.Equal(t, 1000, first.Score, "bonus clamps at the score ceiling")
}

func TestGeneratorEmptyPassYieldsEmptyResult(t *testing.T) {
	m := NewManager(nil)
	g := NewGenerator(m, nil)

	result, cctx, err := g.Generate(context.Background(), "nothing-matches", 15)
	require.NoError(t, err)
	require.NotNil(t, cctx)
	assert.Zero(t, result.Len())
}

func TestGeneratorRejectsBadCursor(t *testing.T) {
	g := NewGenerator(NewManager(nil), nil)

	_, _, err := g.Generate(context.Background(), "echo", -2)
	assert.ErrorIs(t, err, complete.ErrInvalidParameter)
}
