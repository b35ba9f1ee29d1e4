package completion

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/nish-sh/nish/pkg/complete"
)

// wordlistData holds the embedded default subcommand lists for common CLI
// tools. Users extend or override them through completions.yaml.
//
//go:embed data/*.yaml
var wordlistData embed.FS

// WordlistConfig is the on-disk shape of a wordlist file: a map of command
// names to their completion entries.
type WordlistConfig struct {
	Commands map[string][]WordlistEntry `yaml:"commands" json:"commands"`
}

// WordlistEntry is a single static completion for a command's first argument.
type WordlistEntry struct {
	Value       string `yaml:"value" json:"value"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Wordlists completes subcommands of known commands from static word lists.
// Defaults are embedded at compile time; user files merge on top and can be
// reloaded at runtime.
type Wordlists struct {
	mu       sync.RWMutex
	commands map[string][]complete.Candidate
}

// NewWordlists creates a wordlist source seeded with the embedded defaults
// and any user config found in the standard locations.
func NewWordlists() *Wordlists {
	w := &Wordlists{commands: make(map[string][]complete.Candidate)}
	w.loadEmbedded()
	w.loadUserFiles()
	return w
}

func (w *Wordlists) Name() string                 { return "wordlists" }
func (w *Wordlists) Kind() complete.CandidateType { return complete.TypeCustom }

// Applicable limits wordlists to the first argument, where subcommands live.
func (w *Wordlists) Applicable(cctx *complete.Context) bool {
	if cctx.Type != complete.ContextArgument || cctx.ArgumentIndex != 0 {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.commands[cctx.CommandName]
	return ok
}

func (w *Wordlists) Generate(_ context.Context, cctx *complete.Context, prefix string) ([]complete.Candidate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []complete.Candidate
	for _, c := range w.commands[cctx.CommandName] {
		if strings.HasPrefix(c.Text, prefix) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Set registers or replaces the word list for one command.
func (w *Wordlists) Set(command string, entries []WordlistEntry) {
	candidates := make([]complete.Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, complete.Candidate{
			Text:        e.Value,
			Suffix:      " ",
			Type:        complete.TypeCustom,
			Description: e.Description,
		})
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.commands[command] = candidates
}

// Commands returns the sorted list of commands with registered word lists.
func (w *Wordlists) Commands() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, 0, len(w.commands))
	for command := range w.commands {
		out = append(out, command)
	}
	sort.Strings(out)
	return out
}

// Reload re-reads the user config files, merging over the embedded defaults.
func (w *Wordlists) Reload() {
	w.loadUserFiles()
}

func (w *Wordlists) loadEmbedded() {
	_ = fs.WalkDir(wordlistData, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(wordlistData, path)
		if err != nil {
			return nil
		}
		var cfg WordlistConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil
		}
		for command, entries := range cfg.Commands {
			w.Set(command, entries)
		}
		return nil
	})
}

// loadUserFiles probes the standard config locations and merges the first
// readable file.
func (w *Wordlists) loadUserFiles() {
	for _, path := range userWordlistPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := w.LoadFile(path); err == nil {
			return
		}
	}
}

// LoadFile merges a single YAML or JSON wordlist file.
func (w *Wordlists) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var cfg WordlistConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return &complete.ParseError{Path: path, Err: fmt.Errorf("parsing wordlist: %w", err)}
	}

	for command, entries := range cfg.Commands {
		w.Set(command, entries)
	}
	return nil
}

func userWordlistPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths,
			filepath.Join(xdg, "nish", "wordlists.yaml"),
			filepath.Join(xdg, "nish", "wordlists.json"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "nish", "wordlists.yaml"),
			filepath.Join(home, ".config", "nish", "wordlists.json"))
	}
	return paths
}
