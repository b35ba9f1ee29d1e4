package sources

import (
	"context"

	"github.com/nish-sh/nish/pkg/complete"
)

// BuiltinSource completes shell builtin names at command position.
type BuiltinSource struct {
	info ShellInfo
}

// NewBuiltinSource creates a builtin-name source over the shell's tables.
func NewBuiltinSource(info ShellInfo) *BuiltinSource {
	return &BuiltinSource{info: info}
}

func (s *BuiltinSource) Name() string                 { return "builtins" }
func (s *BuiltinSource) Kind() complete.CandidateType { return complete.TypeBuiltin }

func (s *BuiltinSource) Applicable(cctx *complete.Context) bool {
	return cctx.Type == complete.ContextCommand
}

func (s *BuiltinSource) Generate(_ context.Context, _ *complete.Context, prefix string) ([]complete.Candidate, error) {
	var out []complete.Candidate
	for _, name := range filterPrefix(s.info.Builtins(), prefix) {
		out = append(out, complete.Candidate{
			Text:        name,
			Suffix:      " ",
			Type:        complete.TypeBuiltin,
			Description: "shell builtin",
			Score:       scoreBuiltin,
		})
	}
	return out, nil
}

// AliasSource completes alias names at command position.
type AliasSource struct {
	info ShellInfo
}

// NewAliasSource creates an alias-name source over the shell's tables.
func NewAliasSource(info ShellInfo) *AliasSource {
	return &AliasSource{info: info}
}

func (s *AliasSource) Name() string                 { return "aliases" }
func (s *AliasSource) Kind() complete.CandidateType { return complete.TypeAlias }

func (s *AliasSource) Applicable(cctx *complete.Context) bool {
	return cctx.Type == complete.ContextCommand
}

func (s *AliasSource) Generate(_ context.Context, _ *complete.Context, prefix string) ([]complete.Candidate, error) {
	var out []complete.Candidate
	for _, name := range filterPrefix(s.info.Aliases(), prefix) {
		out = append(out, complete.Candidate{
			Text:        name,
			Suffix:      " ",
			Type:        complete.TypeAlias,
			Description: "alias",
			Score:       scoreAlias,
		})
	}
	return out, nil
}
