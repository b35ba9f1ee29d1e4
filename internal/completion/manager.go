package completion

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/nish-sh/nish/pkg/complete"
)

// MaxSources is the fixed capacity of the built-in source table. Custom
// sources live in their own registry behind a single meta-source entry, so
// they never consume built-in capacity.
const MaxSources = 16

// Manager is the fixed-capacity registry of built-in completion sources.
// Registration order is stable and defines tie-break priority when the
// generator collapses duplicate candidates.
type Manager struct {
	sources []complete.Source
	logger  *zap.Logger
}

// NewManager creates an empty source manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sources: make([]complete.Source, 0, MaxSources),
		logger:  logger,
	}
}

// Register appends a source to the table. It fails with ErrCapacity past
// MaxSources entries and ErrAlreadyExists on a duplicate name; in both cases
// the table is left unchanged.
func (m *Manager) Register(src complete.Source) error {
	if src == nil || src.Name() == "" {
		return fmt.Errorf("%w: source must be non-nil and named", complete.ErrInvalidParameter)
	}
	if len(m.sources) >= MaxSources {
		return fmt.Errorf("%w: source table full at %d entries", complete.ErrCapacity, MaxSources)
	}
	for _, s := range m.sources {
		if s.Name() == src.Name() {
			return fmt.Errorf("%w: source %q", complete.ErrAlreadyExists, src.Name())
		}
	}
	m.sources = append(m.sources, src)
	return nil
}

// Query runs every applicable source in registration order and appends its
// candidates to result. A source failing internally is logged and skipped;
// partial results are always preferable to no results. Only a result-set
// capacity overflow aborts the query.
func (m *Manager) Query(ctx context.Context, cctx *complete.Context, prefix string, result *complete.Result) error {
	if cctx == nil || result == nil {
		return fmt.Errorf("%w: context and result must be non-nil", complete.ErrInvalidParameter)
	}

	for _, src := range m.sources {
		if !src.Applicable(cctx) {
			continue
		}
		candidates, err := src.Generate(ctx, cctx, prefix)
		if err != nil {
			m.logger.Warn("completion source failed",
				zap.String("source", src.Name()),
				zap.Error(err))
			continue
		}
		for _, c := range candidates {
			if err := result.Add(c); err != nil {
				return fmt.Errorf("appending from source %q: %w", src.Name(), err)
			}
		}
	}
	return nil
}

// Count returns the number of registered sources.
func (m *Manager) Count() int { return len(m.sources) }

// Names returns the registered source names in priority order.
func (m *Manager) Names() []string {
	return lo.Map(m.sources, func(s complete.Source, _ int) string { return s.Name() })
}

// Lookup returns the source with the given name.
func (m *Manager) Lookup(name string) (complete.Source, bool) {
	for _, s := range m.sources {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}
