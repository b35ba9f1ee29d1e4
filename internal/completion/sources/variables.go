package sources

import (
	"context"

	"github.com/nish-sh/nish/pkg/complete"
)

// VariableSource completes environment and shell variable names after an
// unescaped "$".
type VariableSource struct {
	info ShellInfo
}

// NewVariableSource creates a variable-name source over the shell's tables.
func NewVariableSource(info ShellInfo) *VariableSource {
	return &VariableSource{info: info}
}

func (s *VariableSource) Name() string                 { return "variables" }
func (s *VariableSource) Kind() complete.CandidateType { return complete.TypeVariable }

func (s *VariableSource) Applicable(cctx *complete.Context) bool {
	return cctx.Type == complete.ContextVariable
}

func (s *VariableSource) Generate(_ context.Context, _ *complete.Context, prefix string) ([]complete.Candidate, error) {
	var out []complete.Candidate
	for _, name := range filterPrefix(s.info.Variables(), prefix) {
		out = append(out, complete.Candidate{
			Text:        name,
			Type:        complete.TypeVariable,
			Description: "variable",
			Score:       scoreVariable,
		})
	}
	return out, nil
}

// HistorySource completes whole prior command lines at command position.
type HistorySource struct {
	info ShellInfo
}

// NewHistorySource creates a history source over the shell's tables.
func NewHistorySource(info ShellInfo) *HistorySource {
	return &HistorySource{info: info}
}

func (s *HistorySource) Name() string                 { return "history" }
func (s *HistorySource) Kind() complete.CandidateType { return complete.TypeHistory }

func (s *HistorySource) Applicable(cctx *complete.Context) bool {
	// History only makes sense for a non-empty command prefix; offering
	// the entire history on an empty line would drown the menu.
	return cctx.Type == complete.ContextCommand && cctx.PartialWord != ""
}

func (s *HistorySource) Generate(_ context.Context, _ *complete.Context, prefix string) ([]complete.Candidate, error) {
	seen := make(map[string]bool)
	var out []complete.Candidate
	for _, line := range filterPrefix(s.info.History(), prefix) {
		if seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, complete.Candidate{
			Text:        line,
			Type:        complete.TypeHistory,
			Description: "history",
			Score:       scoreHistory,
		})
	}
	return out, nil
}
