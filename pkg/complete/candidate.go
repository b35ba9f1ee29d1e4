// Package complete defines the shared vocabulary of the nish tab-completion
// core: candidate items, typed result sets with per-category counters, the
// completion context produced by line analysis, and the Source interface that
// candidate providers implement.
package complete

// CandidateType classifies a completion candidate. The declaration order is
// significant: it defines both the sort partitioning of result sets and the
// tie-break priority when duplicate texts are collapsed (builtins win over
// external commands, commands over files, and so on).
type CandidateType int

const (
	TypeBuiltin CandidateType = iota
	TypeCommand
	TypeFile
	TypeDirectory
	TypeVariable
	TypeAlias
	TypeHistory
	TypeCustom
	TypeUnknown

	// NumTypes is the number of candidate categories, used to size the
	// per-type counter array in Result.
	NumTypes = int(TypeUnknown) + 1
)

// String returns a human-readable name for the type.
func (t CandidateType) String() string {
	switch t {
	case TypeBuiltin:
		return "builtin"
	case TypeCommand:
		return "command"
	case TypeFile:
		return "file"
	case TypeDirectory:
		return "directory"
	case TypeVariable:
		return "variable"
	case TypeAlias:
		return "alias"
	case TypeHistory:
		return "history"
	case TypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Indicator returns the single-character display glyph for the type, shown
// next to candidates when a menu is rendered with type indicators enabled.
func (t CandidateType) Indicator() string {
	switch t {
	case TypeBuiltin:
		return "*"
	case TypeCommand:
		return "!"
	case TypeFile:
		return "f"
	case TypeDirectory:
		return "/"
	case TypeVariable:
		return "$"
	case TypeAlias:
		return "@"
	case TypeHistory:
		return "h"
	case TypeCustom:
		return "+"
	default:
		return "?"
	}
}

// Relevance score bounds and defaults. Scores are always normalized into
// [MinScore, MaxScore]; callers that pass a non-positive score get
// DefaultScore.
const (
	MinScore     = 0
	MaxScore     = 1000
	DefaultScore = 500

	// ExactBonus is added to a candidate whose text exactly equals the
	// partial word being completed, so precise matches sort first within
	// their category.
	ExactBonus = 200
)

// Candidate is one completion candidate.
type Candidate struct {
	// Text is the literal replacement for the partial word.
	Text string
	// Suffix is appended after insertion, e.g. a trailing space or "/".
	Suffix string
	// Type categorizes the candidate.
	Type CandidateType
	// Description is optional human-readable text shown alongside the
	// candidate.
	Description string
	// Score is the relevance score in [0, 1000]; higher sorts earlier.
	Score int
	// Exact marks a candidate whose text equals the partial word. Exact
	// candidates sort ahead of all others of the same type.
	Exact bool
}

// NormalizeScore clamps a relevance score into [MinScore, MaxScore].
// Non-positive scores fall back to DefaultScore.
func NormalizeScore(score int) int {
	if score <= MinScore {
		return DefaultScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
