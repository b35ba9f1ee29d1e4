package completion

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nish-sh/nish/pkg/complete"
)

// MaxCustomSources is the fixed capacity of the custom source registry.
const MaxCustomSources = 32

// MetaSourceName is the name under which the registry appears in the source
// manager's table.
const MetaSourceName = "custom"

// GenerateFunc produces candidates for a custom source.
type GenerateFunc func(ctx context.Context, cctx *complete.Context, prefix string) ([]complete.Candidate, error)

// ApplicableFunc gates a custom source on the completion context. A nil
// predicate means the source applies everywhere.
type ApplicableFunc func(cctx *complete.Context) bool

// SourceDef describes a custom source supplied by plugins or the config
// layer. Per-source state that C would pass through a user_data pointer is
// carried by the closures instead.
type SourceDef struct {
	Name        string
	Description string
	// Priority becomes the relevance score of candidates the source emits
	// with a zero score. Normalized into [0, 1000].
	Priority   int
	Generate   GenerateFunc
	Applicable ApplicableFunc
	// Cleanup, if set, runs when the source is unregistered.
	Cleanup func()
}

// Registry is the thread-safe, bounded registry of runtime-registered
// completion sources. All mutation and query-time iteration is serialized by
// one mutex: registration is rare compared to querying, so a coarse lock is
// deliberately preferred over fine-grained concurrency.
type Registry struct {
	mu     sync.Mutex
	defs   []SourceDef
	closed bool
	logger *zap.Logger
}

// NewRegistry creates an empty custom source registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		defs:   make([]SourceDef, 0, MaxCustomSources),
		logger: logger,
	}
}

// Register copies def into a free slot. It rejects unusable definitions
// (ErrInvalidParameter), duplicate names (ErrAlreadyExists) and overflow at
// MaxCustomSources entries (ErrCapacity). On any error the registry is left
// unchanged.
func (r *Registry) Register(def SourceDef) error {
	if def.Name == "" || def.Generate == nil {
		return fmt.Errorf("%w: custom source needs a name and a generate callback", complete.ErrInvalidParameter)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("%w: custom source registry is closed", complete.ErrNotInitialized)
	}
	if len(r.defs) >= MaxCustomSources {
		return fmt.Errorf("%w: custom source registry full at %d entries", complete.ErrCapacity, MaxCustomSources)
	}
	for _, d := range r.defs {
		if d.Name == def.Name {
			return fmt.Errorf("%w: custom source %q", complete.ErrAlreadyExists, def.Name)
		}
	}

	def.Priority = complete.NormalizeScore(def.Priority)
	r.defs = append(r.defs, def)
	return nil
}

// Unregister removes the named source, invoking its Cleanup callback first.
// Unknown names yield ErrNotFound.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("%w: custom source registry is closed", complete.ErrNotInitialized)
	}
	for i, d := range r.defs {
		if d.Name != name {
			continue
		}
		if d.Cleanup != nil {
			d.Cleanup()
		}
		r.defs = append(r.defs[:i], r.defs[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: custom source %q", complete.ErrNotFound, name)
}

// UnregisterAll removes every custom source, running cleanups in
// registration order.
func (r *Registry) UnregisterAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.defs {
		if d.Cleanup != nil {
			d.Cleanup()
		}
	}
	r.defs = r.defs[:0]
}

// Close shuts the registry down: all sources are cleaned up and further API
// use fails with ErrNotInitialized.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	for _, d := range r.defs {
		if d.Cleanup != nil {
			d.Cleanup()
		}
	}
	r.defs = nil
	r.closed = true
}

// Count returns the number of registered custom sources.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.defs)
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.defs))
	for i, d := range r.defs {
		names[i] = d.Name
	}
	return names
}

// Exists reports whether a custom source with the given name is registered.
func (r *Registry) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.defs {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Describe returns the description of the named source.
func (r *Registry) Describe(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.defs {
		if d.Name == name {
			return d.Description, nil
		}
	}
	return "", fmt.Errorf("%w: custom source %q", complete.ErrNotFound, name)
}

// Source returns the single meta-source that represents every registered
// custom source inside the manager's table.
func (r *Registry) Source() complete.Source {
	return &metaSource{registry: r}
}

// metaSource adapts the registry to the Source interface. Its Generate
// iterates every registered definition under the registry lock, honoring each
// entry's own applicability predicate, and never short-circuits on one
// entry's failure.
type metaSource struct {
	registry *Registry
}

func (m *metaSource) Name() string                 { return MetaSourceName }
func (m *metaSource) Kind() complete.CandidateType { return complete.TypeCustom }

func (m *metaSource) Applicable(cctx *complete.Context) bool {
	return cctx != nil
}

func (m *metaSource) Generate(ctx context.Context, cctx *complete.Context, prefix string) ([]complete.Candidate, error) {
	r := m.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("%w: custom source registry is closed", complete.ErrNotInitialized)
	}

	var out []complete.Candidate
	for _, d := range r.defs {
		if d.Applicable != nil && !d.Applicable(cctx) {
			continue
		}
		candidates, err := d.Generate(ctx, cctx, prefix)
		if err != nil {
			r.logger.Warn("custom completion source failed",
				zap.String("source", d.Name),
				zap.Error(err))
			continue
		}
		for _, c := range candidates {
			// Everything the registry emits counts against the custom
			// category, regardless of what the callback filled in.
			c.Type = complete.TypeCustom
			if c.Score <= 0 {
				c.Score = d.Priority
			}
			out = append(out, c)
		}
	}
	return out, nil
}
