package complete

// ContextType classifies what kind of token is being completed.
type ContextType int

const (
	// ContextCommand means the cursor is at a command-name position: start
	// of line, or immediately after ";", "&&", "||", "|" or "(".
	ContextCommand ContextType = iota
	// ContextArgument means the cursor is inside an argument of a command.
	ContextArgument
	// ContextVariable means the partial word follows an unescaped "$".
	ContextVariable
	// ContextRedirect means the word is the target of "<", ">", ">>" or a
	// pipe-adjacent redirection operator.
	ContextRedirect
	// ContextAssignment means the word is the right-hand side of a bare
	// NAME= assignment with no separating space.
	ContextAssignment
	// ContextUnknown is the fallback when no classification applies.
	ContextUnknown
)

func (t ContextType) String() string {
	switch t {
	case ContextCommand:
		return "command"
	case ContextArgument:
		return "argument"
	case ContextVariable:
		return "variable"
	case ContextRedirect:
		return "redirect"
	case ContextAssignment:
		return "assignment"
	default:
		return "unknown"
	}
}

// Context is the output of analyzing one (buffer, cursor) pair. Its lifetime
// is scoped to a single completion session.
type Context struct {
	// Type is the classification of the token being completed.
	Type ContextType

	// WordStart and WordEnd are byte offsets into the buffer delimiting the
	// current word.
	WordStart int
	WordEnd   int

	// PartialWord is the text being completed. For variable contexts the
	// leading "$" is stripped.
	PartialWord string

	// CommandName is the leading command when completing an argument.
	CommandName string

	// ArgumentIndex is the 0-based index of the argument being completed,
	// meaningful only for argument contexts.
	ArgumentIndex int

	// InQuotes reports whether the cursor sits inside an unmatched single
	// or double quote.
	InQuotes bool

	// AfterRedirect reports whether the word follows a redirection operator.
	AfterRedirect bool

	// InAssignment reports whether the word is an assignment right-hand side.
	InAssignment bool

	// Args holds the words between the command name and the current word,
	// used by argument-position filters of config-backed sources.
	Args []string
}
