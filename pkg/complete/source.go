package complete

import "context"

// Source is a named provider of completion candidates for a given context and
// prefix. Built-in sources (builtins, commands, files, variables, history) and
// the custom-source meta source all implement it.
type Source interface {
	// Name identifies the source. Names are unique within a manager.
	Name() string

	// Kind is the candidate category this source produces. Sources that mix
	// categories (e.g. the custom meta source) return TypeCustom.
	Kind() CandidateType

	// Applicable reports whether the source should run for the given
	// completion context. Inapplicable sources are skipped entirely.
	Applicable(cctx *Context) bool

	// Generate returns candidates matching the prefix. A non-nil error is
	// logged and swallowed by the manager; it never aborts the overall
	// completion pass.
	Generate(ctx context.Context, cctx *Context, prefix string) ([]Candidate, error)
}

// Cleaner is optionally implemented by sources that hold resources needing
// release when unregistered.
type Cleaner interface {
	Cleanup()
}
