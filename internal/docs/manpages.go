// Package docs looks up one-line command summaries from the system's man
// page index, used to describe external commands in the completion menu.
package docs

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Summaries resolves command names to their whatis one-liners. Lookups are
// cached for the process lifetime, including negative results, so a menu full
// of commands costs one whatis invocation each at most.
type Summaries struct {
	cache  sync.Map // map[string]string
	logger *zap.Logger
}

func NewSummaries(logger *zap.Logger) *Summaries {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summaries{logger: logger}
}

// Lookup returns the one-line summary for a command, or "" when none exists.
func (s *Summaries) Lookup(command string) string {
	if val, ok := s.cache.Load(command); ok {
		return val.(string)
	}

	summary, err := fetchSummary(command)
	if err != nil {
		s.logger.Debug("no man page summary", zap.String("command", command), zap.Error(err))
		summary = ""
	}

	s.cache.Store(command, summary)
	return summary
}

func fetchSummary(command string) (string, error) {
	// Command names go straight onto an exec argv; refuse anything that is
	// not a plain name.
	if strings.ContainsAny(command, ";|&`$()<>\\\"' \t") || strings.Contains(command, "/") {
		return "", fmt.Errorf("invalid characters in command name")
	}

	if _, err := exec.LookPath("whatis"); err != nil {
		return "", fmt.Errorf("whatis command not found")
	}

	cmd := exec.Command("whatis", "-l", command)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("no documentation found")
	}

	return parseWhatis(out.String(), command), nil
}

// parseWhatis extracts the description from whatis output of the form
// "name (section) - description", preferring the entry whose name matches
// exactly.
func parseWhatis(output, command string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, rest, ok := strings.Cut(line, " ")
		if !ok || strings.TrimSpace(name) != command {
			continue
		}
		if _, desc, ok := strings.Cut(rest, "- "); ok {
			return strings.TrimSpace(desc)
		}
	}
	return ""
}
