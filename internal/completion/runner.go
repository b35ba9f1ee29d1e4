package completion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner executes a shell command and returns its stdout. Config-backed
// completion sources run their candidate-producing commands through it; the
// call is synchronous, which is why those sources are always cached.
type Runner interface {
	Output(ctx context.Context, command string) (string, error)
}

// ShellRunner runs commands through an embedded POSIX shell interpreter.
type ShellRunner struct {
	parser *syntax.Parser
}

// NewShellRunner creates a runner with a fresh parser.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{parser: syntax.NewParser()}
}

// Output parses and executes command, capturing stdout. Stderr is discarded:
// completion commands are expected to be quiet, and their diagnostics must
// not leak into the candidate list.
func (r *ShellRunner) Output(ctx context.Context, command string) (string, error) {
	file, err := r.parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return "", fmt.Errorf("parsing completion command: %w", err)
	}

	var stdout bytes.Buffer
	runner, err := interp.New(interp.StdIO(nil, &stdout, io.Discard))
	if err != nil {
		return "", fmt.Errorf("creating shell runner: %w", err)
	}
	if err := runner.Run(ctx, file); err != nil {
		return "", fmt.Errorf("running completion command: %w", err)
	}
	return stdout.String(), nil
}
