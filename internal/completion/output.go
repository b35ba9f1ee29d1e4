package completion

import (
	"encoding/json"
	"strings"

	"github.com/nish-sh/nish/pkg/complete"
)

type jsonCandidate struct {
	Value       string `json:"Value"`
	Description string `json:"Description"`
}

// ParseCommandOutput turns the stdout of a config-backed completion command
// into candidates. It accepts a JSON array of strings or of
// {Value,Description} objects, and otherwise parses line by line with
// "value<TAB>description" and zsh-style "value:description" forms.
func ParseCommandOutput(output string) []complete.Candidate {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var stringList []string
		if err := json.Unmarshal([]byte(trimmed), &stringList); err == nil {
			out := make([]complete.Candidate, 0, len(stringList))
			for _, s := range stringList {
				out = append(out, complete.Candidate{Text: s, Type: complete.TypeCustom})
			}
			return out
		}

		var objList []jsonCandidate
		if err := json.Unmarshal([]byte(trimmed), &objList); err == nil {
			out := make([]complete.Candidate, 0, len(objList))
			for _, o := range objList {
				out = append(out, complete.Candidate{
					Text:        o.Value,
					Description: o.Description,
					Type:        complete.TypeCustom,
				})
			}
			return out
		}
	}

	var out []complete.Candidate
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		c := complete.Candidate{Type: complete.TypeCustom}
		switch {
		case strings.Contains(line, "\t"):
			parts := strings.SplitN(line, "\t", 2)
			c.Text = parts[0]
			c.Description = strings.TrimSpace(parts[1])
		case strings.Contains(line, ":") && !strings.Contains(line, "://"):
			// zsh-style value:description, but leave URLs alone
			parts := strings.SplitN(line, ":", 2)
			c.Text = parts[0]
			c.Description = strings.TrimSpace(parts[1])
		default:
			c.Text = line
		}
		out = append(out, c)
	}
	return out
}
