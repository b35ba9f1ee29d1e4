// Package sources holds the built-in completion sources: shell builtins,
// aliases, PATH commands, files and directories, variables, and history.
// Shell-owned tables are consulted read-only through the ShellInfo callbacks;
// the file sources read the file system directly.
package sources

// ShellInfo is the read-only view of the shell core's name tables. Each
// method lists names; the sources do their own prefix filtering.
type ShellInfo interface {
	// Builtins lists the shell's builtin command names.
	Builtins() []string
	// Aliases lists the defined alias names.
	Aliases() []string
	// Variables lists environment and shell variable names.
	Variables() []string
	// History lists prior command lines, most recent first.
	History() []string
}

// Default relevance scores per source. Builtins outrank external commands so
// that, after deduplication, a name present in both worlds keeps its builtin
// identity.
const (
	scoreBuiltin  = 900
	scoreAlias    = 850
	scoreCommand  = 800
	scoreVariable = 700
	scoreFile     = 500
	scoreHistory  = 300
)

func filterPrefix(names []string, prefix string) []string {
	if prefix == "" {
		return names
	}
	var out []string
	for _, n := range names {
		if len(n) >= len(prefix) && n[:len(prefix)] == prefix {
			out = append(out, n)
		}
	}
	return out
}
