package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nish-sh/nish/pkg/complete"
)

func fileFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "makefile"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0o755))
	return dir
}

func texts(out []complete.Candidate) []string {
	var ts []string
	for _, c := range out {
		ts = append(ts, c.Text)
	}
	return ts
}

func TestFileSourceListsDirectory(t *testing.T) {
	dir := fileFixture(t)
	src := NewFileSource(func() string { return dir })

	out, err := src.Generate(context.Background(), nil, "")
	require.NoError(t, err)

	got := texts(out)
	assert.Contains(t, got, "main.go")
	assert.Contains(t, got, "makefile")
	assert.Contains(t, got, "src")
	assert.NotContains(t, got, ".hidden")

	for _, c := range out {
		if c.Text == "src" {
			assert.Equal(t, complete.TypeDirectory, c.Type)
			assert.Equal(t, "/", c.Suffix)
		} else {
			assert.Equal(t, complete.TypeFile, c.Type)
			assert.Empty(t, c.Suffix)
		}
	}
}

func TestFileSourcePrefixFilter(t *testing.T) {
	dir := fileFixture(t)
	src := NewFileSource(func() string { return dir })

	out, err := src.Generate(context.Background(), nil, "ma")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main.go", "makefile"}, texts(out))
}

func TestFileSourceHiddenFiles(t *testing.T) {
	dir := fileFixture(t)
	src := NewFileSource(func() string { return dir })

	out, err := src.Generate(context.Background(), nil, ".")
	require.NoError(t, err)
	assert.Contains(t, texts(out), ".hidden")
}

func TestFileSourceSubdirectoryPrefix(t *testing.T) {
	dir := fileFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.go"), nil, 0o644))
	src := NewFileSource(func() string { return dir })

	out, err := src.Generate(context.Background(), nil, "src/li")
	require.NoError(t, err)
	require.Len(t, out, 1)
	// The candidate preserves the directory part the user already typed.
	assert.Equal(t, "src/lib.go", out[0].Text)
}

func TestFileSourceNonexistentDirectory(t *testing.T) {
	src := NewFileSource(func() string { return t.TempDir() })

	out, err := src.Generate(context.Background(), nil, "no-such-dir/")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFileSourceQuotesWhitespace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "my file.txt"), nil, 0o644))
	src := NewFileSource(func() string { return dir })

	out, err := src.Generate(context.Background(), nil, "my")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "'my file.txt'", out[0].Text)
}

func TestDirSourceOnlyListsDirectories(t *testing.T) {
	dir := fileFixture(t)
	src := NewDirSource(func() string { return dir })

	out, err := src.Generate(context.Background(), nil, "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "src", out[0].Text)
	assert.Equal(t, complete.TypeDirectory, out[0].Type)
}

func TestFileSourceApplicability(t *testing.T) {
	files := NewFileSource(nil)
	dirs := NewDirSource(nil)

	arg := &complete.Context{Type: complete.ContextArgument, CommandName: "cat"}
	assert.True(t, files.Applicable(arg))
	assert.False(t, dirs.Applicable(arg))

	cd := &complete.Context{Type: complete.ContextArgument, CommandName: "cd"}
	assert.False(t, files.Applicable(cd), "directory-taking commands use the dir source")
	assert.True(t, dirs.Applicable(cd))

	redirect := &complete.Context{Type: complete.ContextRedirect}
	assert.True(t, files.Applicable(redirect))

	pathCommand := &complete.Context{Type: complete.ContextCommand, PartialWord: "./scri"}
	assert.True(t, files.Applicable(pathCommand))
	assert.False(t, dirs.Applicable(pathCommand))

	bareCommand := &complete.Context{Type: complete.ContextCommand, PartialWord: "gi"}
	assert.False(t, files.Applicable(bareCommand))
}
