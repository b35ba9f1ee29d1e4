package sources

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/nish-sh/nish/pkg/complete"
)

// FileSource completes file and directory names for argument, redirect and
// assignment positions, and for path-like command prefixes. Directories get a
// "/" suffix and their own candidate category. Hidden entries are included
// only when the partial word's base name starts with ".".
type FileSource struct {
	pwd func() string
	// dirsOnly restricts candidates to directories, for commands like cd.
	dirsOnly bool
}

// NewFileSource creates a file-system source rooted at the directory pwd
// reports. A nil pwd falls back to the process working directory.
func NewFileSource(pwd func() string) *FileSource {
	return &FileSource{pwd: pwdOrDefault(pwd)}
}

// NewDirSource creates a directories-only variant, used when completing
// arguments of directory-taking commands.
func NewDirSource(pwd func() string) *FileSource {
	return &FileSource{pwd: pwdOrDefault(pwd), dirsOnly: true}
}

func pwdOrDefault(pwd func() string) func() string {
	if pwd != nil {
		return pwd
	}
	return func() string {
		cwd, _ := os.Getwd()
		return cwd
	}
}

func (s *FileSource) Name() string {
	if s.dirsOnly {
		return "directories"
	}
	return "files"
}

func (s *FileSource) Kind() complete.CandidateType {
	if s.dirsOnly {
		return complete.TypeDirectory
	}
	return complete.TypeFile
}

func (s *FileSource) Applicable(cctx *complete.Context) bool {
	switch cctx.Type {
	case complete.ContextArgument, complete.ContextRedirect, complete.ContextAssignment:
		if s.dirsOnly {
			return isDirCommand(cctx.CommandName)
		}
		return !isDirCommand(cctx.CommandName)
	case complete.ContextCommand:
		// ./script and /usr/bin/x style command words complete as paths.
		return !s.dirsOnly && strings.Contains(cctx.PartialWord, "/")
	default:
		return false
	}
}

// isDirCommand reports whether the command only takes directory arguments.
func isDirCommand(command string) bool {
	switch command {
	case "cd", "pushd", "rmdir", "mkdir":
		return true
	default:
		return false
	}
}

func (s *FileSource) Generate(_ context.Context, _ *complete.Context, prefix string) ([]complete.Candidate, error) {
	searchDir, filePrefix := splitPathPrefix(prefix)
	resolved := s.resolve(searchDir)

	entries, err := osReadDir(resolved)
	if err != nil {
		return nil, nil // nonexistent directories simply yield nothing
	}

	includeHidden := strings.HasPrefix(filePrefix, ".")

	var out []complete.Candidate
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) {
			continue
		}
		if !includeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		isDir := entry.IsDir()
		if s.dirsOnly && !isDir {
			continue
		}

		c := complete.Candidate{
			Text:  quoteIfNeeded(joinDisplay(searchDir, name)),
			Type:  complete.TypeFile,
			Score: scoreFile,
		}
		if isDir {
			c.Type = complete.TypeDirectory
			c.Suffix = "/"
		}
		out = append(out, c)
	}
	return out, nil
}

// splitPathPrefix divides a partial path into the directory to list and the
// base-name prefix to filter with.
func splitPathPrefix(prefix string) (searchDir, filePrefix string) {
	if prefix == "" {
		return ".", ""
	}
	if strings.HasSuffix(prefix, "/") {
		return prefix, ""
	}
	dir, base := filepath.Split(prefix)
	if dir == "" {
		dir = "."
	}
	return dir, base
}

// resolve expands "~/" and anchors relative paths at the shell's working
// directory.
func (s *FileSource) resolve(dir string) string {
	if strings.HasPrefix(dir, "~/") || dir == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return dir
		}
		return filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(s.pwd(), dir)
}

// joinDisplay rebuilds the candidate text so it replaces the partial word as
// typed, preserving the directory part the user already entered.
func joinDisplay(searchDir, name string) string {
	if searchDir == "." {
		return name
	}
	if strings.HasSuffix(searchDir, "/") {
		return searchDir + name
	}
	return searchDir + "/" + name
}

// quoteIfNeeded shell-quotes candidates containing whitespace so insertion
// yields a valid word.
func quoteIfNeeded(text string) string {
	if !strings.ContainsAny(text, " \t") {
		return text
	}
	quoted, err := syntax.Quote(text, syntax.LangBash)
	if err != nil {
		return text
	}
	return quoted
}
