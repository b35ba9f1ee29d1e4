package completion

import (
	"context"

	"go.uber.org/zap"

	"github.com/nish-sh/nish/pkg/complete"
)

// DefaultResultCapacity bounds one generation pass. Result sets refuse
// further candidates past this limit rather than truncating silently.
const DefaultResultCapacity = 256

// Generator is the orchestration entry point for one completion pass: it
// analyzes the buffer, queries the source manager, then deduplicates and
// sorts the combined result.
type Generator struct {
	manager  *Manager
	logger   *zap.Logger
	capacity int
}

// NewGenerator creates a generator over the given source manager.
func NewGenerator(manager *Manager, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		manager:  manager,
		logger:   logger,
		capacity: DefaultResultCapacity,
	}
}

// Generate runs one completion pass for (buffer, cursor) and returns the
// finished, deduplicated, sorted result set. A pass in which every source
// fails simply yields an empty result; the caller takes no action.
func (g *Generator) Generate(ctx context.Context, buffer string, cursor int) (*complete.Result, *complete.Context, error) {
	cctx, err := Analyze(buffer, cursor)
	if err != nil {
		return nil, nil, err
	}

	result, err := complete.NewResult(g.capacity)
	if err != nil {
		return nil, nil, err
	}

	if err := g.manager.Query(ctx, cctx, cctx.PartialWord, result); err != nil {
		// A full result set is still a usable result set; anything else
		// yields the empty result and no menu.
		g.logger.Warn("completion query aborted",
			zap.String("partial", cctx.PartialWord),
			zap.Error(err))
	}

	result.Dedupe()
	markExact(result, cctx.PartialWord)
	result.Sort()

	g.logger.Debug("completion pass finished",
		zap.String("context", cctx.Type.String()),
		zap.String("partial", cctx.PartialWord),
		zap.Int("candidates", result.Len()))

	return result, cctx, nil
}

// markExact elevates candidates whose text equals the partial word with no
// remaining suffix, so precise matches always sort first within their type.
func markExact(result *complete.Result, partial string) {
	if partial == "" {
		return
	}
	items := result.Items()
	for i := range items {
		if items[i].Text != partial {
			continue
		}
		items[i].Exact = true
		items[i].Score = items[i].Score + complete.ExactBonus
		if items[i].Score > complete.MaxScore {
			items[i].Score = complete.MaxScore
		}
	}
}
