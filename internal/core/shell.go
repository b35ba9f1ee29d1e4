// Package core wires the shell together: the interpreter, the history store,
// the completion engine with its default sources, and the settings that
// shape the completion menu.
package core

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/nish-sh/nish/internal/completion"
	"github.com/nish-sh/nish/internal/completion/sources"
	"github.com/nish-sh/nish/internal/config"
	"github.com/nish-sh/nish/internal/docs"
	"github.com/nish-sh/nish/internal/history"
	"github.com/nish-sh/nish/pkg/complete"
	"github.com/nish-sh/nish/pkg/menu"
)

// builtinNames are the builtins the embedded interpreter understands, served
// to completion at command position.
var builtinNames = []string{
	"alias", "bg", "break", "cd", "command", "continue", "declare", "dirs",
	"echo", "eval", "exec", "exit", "export", "false", "fg", "getopts",
	"hash", "jobs", "kill", "local", "popd", "printf", "pushd", "pwd",
	"read", "readonly", "return", "set", "shift", "shopt", "source", "test",
	"times", "trap", "true", "type", "typeset", "ulimit", "umask", "unalias",
	"unset", "wait",
}

// Shell owns one interactive shell instance: the interpreter, history,
// aliases, and the fully wired completion engine.
type Shell struct {
	runner    *interp.Runner
	parser    *syntax.Parser
	history   *history.Store
	settings  config.Settings
	logger    *zap.Logger
	sessionID string

	aliases map[string]string

	manager      *completion.Manager
	registry     *completion.Registry
	generator    *completion.Generator
	wordlists    *completion.Wordlists
	configLoader *completion.ConfigLoader
	summaries    *docs.Summaries
}

// NewShell builds a shell around an interpreter and wires the completion
// engine: built-in sources in priority order, then the custom source
// registry behind its meta-source, then the config-file layer.
func NewShell(runner *interp.Runner, store *history.Store, settings config.Settings, logger *zap.Logger) (*Shell, error) {
	if runner == nil {
		return nil, fmt.Errorf("%w: shell needs an interpreter", complete.ErrInvalidParameter)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Shell{
		runner:    runner,
		parser:    syntax.NewParser(),
		history:   store,
		settings:  settings,
		logger:    logger,
		sessionID: uuid.NewString(),
		aliases:   make(map[string]string),
		registry:  completion.NewRegistry(logger),
		wordlists: completion.NewWordlists(),
		summaries: docs.NewSummaries(logger),
	}

	s.manager = completion.NewManager(logger)
	s.generator = completion.NewGenerator(s.manager, logger)
	s.configLoader = completion.NewConfigLoader(s.registry, completion.NewShellRunner(), logger)

	// Registration order doubles as the dedupe tie-break: builtins beat
	// aliases beat commands beat files.
	register := []complete.Source{
		sources.NewBuiltinSource(s),
		sources.NewAliasSource(s),
		sources.NewCommandSource(nil),
		sources.NewFileSource(s.pwd),
		sources.NewDirSource(s.pwd),
		sources.NewVariableSource(s),
		sources.NewHistorySource(s),
		s.wordlists,
		s.registry.Source(),
	}
	for _, src := range register {
		if err := s.manager.Register(src); err != nil {
			return nil, fmt.Errorf("wiring completion source %q: %w", src.Name(), err)
		}
	}

	if err := s.configLoader.LoadFile(CompletionsFile()); err != nil {
		// A broken completion config disables its sources, never the shell.
		logger.Warn("loading completion config failed", zap.Error(err))
	}

	return s, nil
}

// NewRunner constructs the embedded interpreter the way the interactive
// shell needs it.
func NewRunner() (*interp.Runner, error) {
	return interp.New(
		interp.Interactive(true),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(os.Stdin, os.Stdout, os.Stderr),
	)
}

// Close releases the shell's resources. The registry close runs every custom
// source's cleanup.
func (s *Shell) Close() error {
	s.registry.Close()
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// SessionID identifies this shell instance in the history store.
func (s *Shell) SessionID() string { return s.sessionID }

// Registry exposes the custom source registry to plugins.
func (s *Shell) Registry() *completion.Registry { return s.registry }

// Wordlists exposes the static wordlist tables.
func (s *Shell) Wordlists() *completion.Wordlists { return s.wordlists }

// SetAlias records an alias for completion.
func (s *Shell) SetAlias(name, expansion string) {
	s.aliases[name] = expansion
}

// Builtins implements sources.ShellInfo.
func (s *Shell) Builtins() []string { return builtinNames }

// Aliases implements sources.ShellInfo.
func (s *Shell) Aliases() []string {
	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variables implements sources.ShellInfo: every variable the interpreter
// knows, shell-local and environment alike.
func (s *Shell) Variables() []string {
	seen := make(map[string]bool)
	var names []string
	for name := range s.runner.Vars {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// History implements sources.ShellInfo, most recent first.
func (s *Shell) History() []string {
	if s.history == nil {
		return nil
	}
	commands, err := s.history.Recent("", s.settings.HistoryLimit)
	if err != nil {
		s.logger.Warn("reading history for completion", zap.Error(err))
		return nil
	}
	return commands
}

func (s *Shell) pwd() string {
	if pwd := s.runner.Vars["PWD"].String(); pwd != "" {
		return pwd
	}
	cwd, _ := os.Getwd()
	return cwd
}

// Complete runs one completion pass over (buffer, cursor).
func (s *Shell) Complete(ctx context.Context, buffer string, cursor int) (*complete.Result, *complete.Context, error) {
	result, cctx, err := s.generator.Generate(ctx, buffer, cursor)
	if err != nil {
		return nil, nil, err
	}
	if s.settings.ShowDescriptions {
		s.describeCommands(result)
	}
	return result, cctx, nil
}

// describeCommands fills in man-page one-liners for external commands that
// arrived without a description.
func (s *Shell) describeCommands(result *complete.Result) {
	items := result.Items()
	for i := range items {
		if items[i].Type != complete.TypeCommand {
			continue
		}
		if items[i].Description == "" || items[i].Description == "command" {
			if summary := s.summaries.Lookup(items[i].Text); summary != "" {
				items[i].Description = summary
			}
		}
	}
}

// StartCompletion generates candidates and opens a session over them. The
// session starts in menu mode when the result is large enough for a menu.
func (s *Shell) StartCompletion(ctx context.Context, buffer string, cursor int) (*completion.Session, error) {
	result, cctx, err := s.Complete(ctx, buffer, cursor)
	if err != nil {
		return nil, err
	}
	session, err := completion.NewSession(buffer, cursor, cctx, result)
	if err != nil {
		return nil, err
	}
	session.SetMenuMode(result.Len() >= s.settings.MenuMinItems)
	return session, nil
}

// Menu opens the navigation menu for a session's result set.
func (s *Shell) Menu(session *completion.Session) (*menu.Model, error) {
	return menu.New(session.Results(), s.settings.MenuRows)
}

// MenuOptions derives render options from the shell settings.
func (s *Shell) MenuOptions(width int) menu.Options {
	opts := menu.DefaultOptions(width)
	opts.ShowHeaders = s.settings.ShowHeaders
	opts.ShowTypeIndicators = s.settings.ShowIndicators
	opts.MaxRows = s.settings.MenuRows + complete.NumTypes // headroom for headers
	return opts
}

// ReloadCompletionConfig re-reads the user's completion and wordlist files.
func (s *Shell) ReloadCompletionConfig() error {
	s.wordlists.Reload()
	return s.configLoader.Reload(CompletionsFile())
}

// Run executes one command line through the interpreter and records it in
// history with its exit code.
func (s *Shell) Run(ctx context.Context, line string) error {
	file, err := s.parser.Parse(strings.NewReader(line), "nish")
	if err != nil {
		return fmt.Errorf("parsing command: %w", err)
	}

	var entry *history.Entry
	if s.history != nil {
		entry, err = s.history.Start(line, s.pwd(), s.sessionID)
		if err != nil {
			s.logger.Warn("recording history entry", zap.Error(err))
		}
	}

	runErr := s.runner.Run(ctx, file)

	if entry != nil {
		code := 0
		if status, ok := interp.IsExitStatus(runErr); ok {
			code = int(status)
		} else if runErr != nil {
			code = 1
		}
		if _, err := s.history.Finish(entry, code); err != nil {
			s.logger.Warn("finishing history entry", zap.Error(err))
		}
	}

	return runErr
}
