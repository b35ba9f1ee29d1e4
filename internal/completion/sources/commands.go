package sources

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/nish-sh/nish/pkg/complete"
)

// osReadDir is a variable so tests can stub directory listing.
var osReadDir = os.ReadDir

// CommandSource completes external command names by scanning the directories
// on PATH for executable files.
type CommandSource struct {
	pathEnv func() string
}

// NewCommandSource creates a PATH-command source. A nil pathEnv falls back to
// the process environment.
func NewCommandSource(pathEnv func() string) *CommandSource {
	if pathEnv == nil {
		pathEnv = func() string { return os.Getenv("PATH") }
	}
	return &CommandSource{pathEnv: pathEnv}
}

func (s *CommandSource) Name() string                 { return "commands" }
func (s *CommandSource) Kind() complete.CandidateType { return complete.TypeCommand }

func (s *CommandSource) Applicable(cctx *complete.Context) bool {
	// Path-like prefixes (./script, /usr/bin/x) are completed by the file
	// source instead.
	return cctx.Type == complete.ContextCommand && !strings.Contains(cctx.PartialWord, "/")
}

func (s *CommandSource) Generate(_ context.Context, _ *complete.Context, prefix string) ([]complete.Candidate, error) {
	pathEnv := s.pathEnv()
	if pathEnv == "" {
		return nil, nil
	}

	names := make(map[string]bool)
	for _, dir := range strings.Split(pathEnv, string(os.PathListSeparator)) {
		entries, err := osReadDir(dir)
		if err != nil {
			continue // unreadable PATH entries are skipped
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
				continue
			}
			info, err := entry.Info()
			if err != nil || info.Mode()&0111 == 0 {
				continue
			}
			names[entry.Name()] = true
		}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	out := make([]complete.Candidate, 0, len(sorted))
	for _, name := range sorted {
		out = append(out, complete.Candidate{
			Text:        name,
			Suffix:      " ",
			Type:        complete.TypeCommand,
			Description: "command",
			Score:       scoreCommand,
		})
	}
	return out, nil
}
