package completion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/nish-sh/nish/pkg/complete"
)

// CommandSourceConfig is one named section of the user's completion config:
// a shell command whose stdout lines become candidates for the commands the
// section applies to.
type CommandSourceConfig struct {
	// AppliesTo holds "command" or "command subcommand" patterns.
	AppliesTo []string `koanf:"applies_to"`
	// Argument restricts the source to one 0-based argument position;
	// nil applies to any position.
	Argument *int `koanf:"argument"`
	// Command is the shell command producing candidates on stdout.
	Command string `koanf:"command"`
	// Suffix is appended to every candidate on insertion.
	Suffix string `koanf:"suffix"`
	// CacheSeconds is how long the command's output is reused before the
	// command runs again. Zero disables caching.
	CacheSeconds int `koanf:"cache_seconds"`
}

// cacheEntry caches one source's full candidate list. Entries are keyed by
// source, not by prefix: a hit returns the prior list, which the generate
// wrapper still prefix-filters.
type cacheEntry struct {
	candidates []complete.Candidate
	fetchedAt  time.Time
}

type commandCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newCommandCache(now func() time.Time) *commandCache {
	if now == nil {
		now = time.Now
	}
	return &commandCache{entries: make(map[string]cacheEntry), now: now}
}

func (c *commandCache) get(name string, ttl time.Duration) ([]complete.Candidate, bool) {
	if ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[name]
	if !ok || c.now().Sub(entry.fetchedAt) > ttl {
		return nil, false
	}
	return entry.candidates, true
}

func (c *commandCache) put(name string, candidates []complete.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = cacheEntry{candidates: candidates, fetchedAt: c.now()}
}

func (c *commandCache) drop(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// ConfigLoader reads the user's completion config and registers one custom
// source per section in the registry. A missing file is not an error; a
// malformed file is a ParseError and that file's sources are skipped.
type ConfigLoader struct {
	registry *Registry
	runner   Runner
	cache    *commandCache
	logger   *zap.Logger

	mu     sync.Mutex
	loaded []string // source names registered from the last load
}

// NewConfigLoader creates a loader targeting the given registry. A nil
// runner falls back to the embedded shell runner.
func NewConfigLoader(registry *Registry, runner Runner, logger *zap.Logger) *ConfigLoader {
	if runner == nil {
		runner = NewShellRunner()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigLoader{
		registry: registry,
		runner:   runner,
		cache:    newCommandCache(nil),
		logger:   logger,
	}
}

// DefaultConfigPath returns the per-user completion config location.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nish", "completions.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "nish", "completions.toml")
}

// LoadFile loads a TOML or YAML config file (by extension) and registers its
// sources. A missing file loads zero sources and returns nil.
func (l *ConfigLoader) LoadFile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty config path", complete.ErrInvalidParameter)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return &complete.ParseError{Path: path, Err: err}
	}
	return l.register(k, path)
}

// Load parses raw config bytes in the given format ("toml" or "yaml").
func (l *ConfigLoader) Load(data []byte, format string) error {
	k := koanf.New(".")
	var parser koanf.Parser
	switch format {
	case "toml":
		parser = ktoml.Parser()
	case "yaml", "yml":
		parser = kyaml.Parser()
	default:
		return fmt.Errorf("%w: unsupported config format %q", complete.ErrInvalidParameter, format)
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return &complete.ParseError{Err: err}
	}
	return l.register(k, "")
}

// Reload drops every source registered by the previous load and loads the
// file again, invalidating their caches.
func (l *ConfigLoader) Reload(path string) error {
	l.unregisterLoaded()
	return l.LoadFile(path)
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return kyaml.Parser()
	default:
		return ktoml.Parser()
	}
}

func (l *ConfigLoader) register(k *koanf.Koanf, path string) error {
	var sections map[string]CommandSourceConfig
	if err := k.Unmarshal("", &sections); err != nil {
		return &complete.ParseError{Path: path, Err: err}
	}

	for name, cfg := range sections {
		if cfg.Command == "" {
			l.logger.Warn("completion config section has no command; skipped",
				zap.String("source", name))
			continue
		}
		def := l.sourceDef(name, cfg)
		if err := l.registry.Register(def); err != nil {
			l.logger.Warn("registering config completion source failed",
				zap.String("source", name),
				zap.Error(err))
			continue
		}
		l.mu.Lock()
		l.loaded = append(l.loaded, name)
		l.mu.Unlock()
	}
	return nil
}

func (l *ConfigLoader) unregisterLoaded() {
	l.mu.Lock()
	loaded := l.loaded
	l.loaded = nil
	l.mu.Unlock()

	for _, name := range loaded {
		if err := l.registry.Unregister(name); err != nil {
			l.logger.Debug("unregistering config completion source",
				zap.String("source", name),
				zap.Error(err))
		}
	}
}

// sourceDef builds the custom-source definition for one config section.
func (l *ConfigLoader) sourceDef(name string, cfg CommandSourceConfig) SourceDef {
	ttl := time.Duration(cfg.CacheSeconds) * time.Second
	return SourceDef{
		Name:        name,
		Description: fmt.Sprintf("config source (%s)", cfg.Command),
		Generate: func(ctx context.Context, _ *complete.Context, prefix string) ([]complete.Candidate, error) {
			candidates, hit := l.cache.get(name, ttl)
			if !hit {
				output, err := l.runner.Output(ctx, cfg.Command)
				if err != nil {
					return nil, err
				}
				candidates = ParseCommandOutput(output)
				for i := range candidates {
					candidates[i].Suffix = cfg.Suffix
				}
				l.cache.put(name, candidates)
			}
			return filterCandidates(candidates, prefix), nil
		},
		Applicable: func(cctx *complete.Context) bool {
			return configApplies(cfg, cctx)
		},
		Cleanup: func() {
			l.cache.drop(name)
		},
	}
}

// configApplies matches a context against a section's applies_to patterns and
// argument position filter.
func configApplies(cfg CommandSourceConfig, cctx *complete.Context) bool {
	if cctx.Type != complete.ContextArgument {
		return false
	}
	if cfg.Argument != nil && cctx.ArgumentIndex != *cfg.Argument {
		return false
	}
	if len(cfg.AppliesTo) == 0 {
		return false
	}
	for _, pattern := range cfg.AppliesTo {
		fields := strings.Fields(pattern)
		if len(fields) == 0 || fields[0] != cctx.CommandName {
			continue
		}
		if len(fields) == 1 {
			return true
		}
		if len(cctx.Args) > 0 && cctx.Args[0] == fields[1] {
			return true
		}
	}
	return false
}

func filterCandidates(candidates []complete.Candidate, prefix string) []complete.Candidate {
	if prefix == "" {
		return candidates
	}
	var out []complete.Candidate
	for _, c := range candidates {
		if strings.HasPrefix(c.Text, prefix) {
			out = append(out, c)
		}
	}
	return out
}
