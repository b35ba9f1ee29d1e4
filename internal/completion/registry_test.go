package completion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nish-sh/nish/pkg/complete"
)

func staticDef(name string, texts ...string) SourceDef {
	return SourceDef{
		Name: name,
		Generate: func(_ context.Context, _ *complete.Context, _ string) ([]complete.Candidate, error) {
			var out []complete.Candidate
			for _, t := range texts {
				out = append(out, complete.Candidate{Text: t})
			}
			return out, nil
		},
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry(nil)

	require.NoError(t, r.Register(staticDef("deploy", "staging", "production")))
	assert.Equal(t, 1, r.Count())
	assert.True(t, r.Exists("deploy"))
	assert.Equal(t, []string{"deploy"}, r.Names())
}

func TestRegistryRegisterValidation(t *testing.T) {
	r := NewRegistry(nil)

	assert.ErrorIs(t, r.Register(SourceDef{}), complete.ErrInvalidParameter)
	assert.ErrorIs(t, r.Register(SourceDef{Name: "no-generate"}), complete.ErrInvalidParameter)

	require.NoError(t, r.Register(staticDef("dup")))
	assert.ErrorIs(t, r.Register(staticDef("dup")), complete.ErrAlreadyExists)
	assert.Equal(t, 1, r.Count())
}

func TestRegistryCapacity(t *testing.T) {
	r := NewRegistry(nil)
	for i := 0; i < MaxCustomSources; i++ {
		require.NoError(t, r.Register(staticDef(fmt.Sprintf("src-%d", i))))
	}

	assert.ErrorIs(t, r.Register(staticDef("overflow")), complete.ErrCapacity)
	assert.Equal(t, MaxCustomSources, r.Count())
}

func TestRegistryUnregister(t *testing.T) {
	cleaned := false
	def := staticDef("temp")
	def.Cleanup = func() { cleaned = true }

	r := NewRegistry(nil)
	require.NoError(t, r.Register(def))

	require.NoError(t, r.Unregister("temp"))
	assert.True(t, cleaned, "cleanup must run on unregister")
	assert.False(t, r.Exists("temp"))

	assert.ErrorIs(t, r.Unregister("temp"), complete.ErrNotFound)
}

func TestRegistryUnregisterAll(t *testing.T) {
	cleanups := 0
	r := NewRegistry(nil)
	for _, name := range []string{"a", "b", "c"} {
		def := staticDef(name)
		def.Cleanup = func() { cleanups++ }
		require.NoError(t, r.Register(def))
	}

	r.UnregisterAll()
	assert.Equal(t, 3, cleanups, "every cleanup must run")
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.Names())

	// Unlike Close, the registry stays usable.
	require.NoError(t, r.Register(staticDef("fresh")))
	assert.Equal(t, 1, r.Count())
}

func TestRegistryDescribe(t *testing.T) {
	def := staticDef("described")
	def.Description = "environments"

	r := NewRegistry(nil)
	require.NoError(t, r.Register(def))

	desc, err := r.Describe("described")
	require.NoError(t, err)
	assert.Equal(t, "environments", desc)

	_, err = r.Describe("missing")
	assert.ErrorIs(t, err, complete.ErrNotFound)
}

func TestRegistryClose(t *testing.T) {
	cleanups := 0
	def := staticDef("a")
	def.Cleanup = func() { cleanups++ }

	r := NewRegistry(nil)
	require.NoError(t, r.Register(def))

	r.Close()
	r.Close() // idempotent
	assert.Equal(t, 1, cleanups)

	assert.ErrorIs(t, r.Register(staticDef("late")), complete.ErrNotInitialized)
	assert.ErrorIs(t, r.Unregister("a"), complete.ErrNotInitialized)

	_, err := r.Source().Generate(context.Background(), &complete.Context{}, "")
	assert.ErrorIs(t, err, complete.ErrNotInitialized)
}

func TestMetaSourceGenerate(t *testing.T) {
	r := NewRegistry(nil)

	envs := staticDef("envs", "staging", "production")
	envs.Priority = 640
	require.NoError(t, r.Register(envs))

	gated := staticDef("gated", "never")
	gated.Applicable = func(_ *complete.Context) bool { return false }
	require.NoError(t, r.Register(gated))

	failing := SourceDef{
		Name: "failing",
		Generate: func(_ context.Context, _ *complete.Context, _ string) ([]complete.Candidate, error) {
			return nil, errors.New("boom")
		},
	}
	require.NoError(t, r.Register(failing))

	src := r.Source()
	assert.Equal(t, MetaSourceName, src.Name())
	assert.Equal(t, complete.TypeCustom, src.Kind())

	out, err := src.Generate(context.Background(), &complete.Context{}, "")
	require.NoError(t, err, "one failing entry must not abort the meta-source")
	require.Len(t, out, 2)

	for _, c := range out {
		// The registry owns the category and default score of everything
		// it emits.
		assert.Equal(t, complete.TypeCustom, c.Type)
		assert.Equal(t, 640, c.Score)
	}
}

func TestMetaSourceForcesCustomType(t *testing.T) {
	r := NewRegistry(nil)
	def := SourceDef{
		Name: "mislabeled",
		Generate: func(_ context.Context, _ *complete.Context, _ string) ([]complete.Candidate, error) {
			return []complete.Candidate{{Text: "x", Type: complete.TypeBuiltin, Score: 10}}, nil
		},
	}
	require.NoError(t, r.Register(def))

	out, err := r.Source().Generate(context.Background(), &complete.Context{}, "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, complete.TypeCustom, out[0].Type)
	assert.Equal(t, 10, out[0].Score, "explicit scores are kept")
}
