// Package completion implements the nish tab-completion engine: context
// analysis of the partial command line, a priority-ordered source manager, a
// thread-safe custom source registry with a config-file layer, the generation
// pass that deduplicates and ranks candidates, and per-request session state.
package completion

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nish-sh/nish/pkg/complete"
)

// Operator tokens that put the next word in command position.
var commandSeparators = map[string]bool{
	";": true, "|": true, "&": true, "&&": true, "||": true, "(": true,
}

// Operator tokens that make the next word a redirection target.
var redirectOperators = map[string]bool{
	"<": true, ">": true, ">>": true,
}

type wordSpan struct {
	start int
	end   int
	text  string
}

// lineScan is the incremental state of one forward pass over the buffer.
type lineScan struct {
	quote      byte // active quote char, 0 when outside quotes
	escaped    bool
	inWord     bool
	wordStart  int
	words      []wordSpan // completed words of the current simple command
	pendingOp  string     // operator immediately preceding the next word
	currentOp  string     // operator that preceded the in-progress word
	quoteStrip int        // bytes of opening quote to strip from the partial
}

// Analyze parses (buffer, cursor) into a typed completion context: what kind
// of token is being completed, the partial word, and quoting state. Cursor
// positions past the end of the buffer are clamped rather than rejected.
func Analyze(buffer string, cursor int) (*complete.Context, error) {
	if cursor < 0 {
		return nil, fmt.Errorf("%w: negative cursor position %d", complete.ErrInvalidParameter, cursor)
	}
	if cursor > len(buffer) {
		cursor = len(buffer)
	}

	s := &lineScan{}
	scan := buffer[:cursor]
	for i := 0; i < len(scan); i++ {
		s.step(scan, i)
	}

	cctx := &complete.Context{
		Type:      complete.ContextUnknown,
		WordStart: cursor,
		WordEnd:   wordEnd(buffer, cursor),
		InQuotes:  s.quote != 0,
	}

	if s.inWord {
		cctx.WordStart = s.wordStart
		cctx.PartialWord = scan[s.wordStart+s.quoteStrip:]
	}

	classify(cctx, s)
	return cctx, nil
}

// step consumes one byte of the scanned prefix.
func (s *lineScan) step(scan string, i int) {
	c := scan[i]

	if s.escaped {
		s.escaped = false
		s.beginWord(i - 1)
		return
	}

	if s.quote != 0 {
		if c == s.quote {
			s.quote = 0
		}
		s.beginWord(i)
		return
	}

	switch {
	case c == '\\':
		s.escaped = true
	case c == '\'' || c == '"':
		s.quote = c
		if !s.inWord {
			s.beginWord(i)
			s.quoteStrip = 1
		}
	case c == ' ' || c == '\t':
		s.endWord(scan, i)
	case c == ';' || c == '(':
		s.endWord(scan, i)
		s.separator(string(c))
	case c == '&' || c == '|':
		s.endWord(scan, i)
		op := string(c)
		if i+1 < len(scan) && scan[i+1] == c {
			op += string(c)
		}
		// The doubled form is consumed one byte at a time; collapsing to
		// the same separator keeps the state identical either way.
		s.separator(op)
	case c == '<' || c == '>':
		s.endWord(scan, i)
		op := string(c)
		if c == '>' && i+1 < len(scan) && scan[i+1] == '>' {
			op = ">>"
		}
		s.pendingOp = op
	default:
		s.beginWord(i)
	}
}

func (s *lineScan) beginWord(i int) {
	if !s.inWord {
		s.inWord = true
		s.wordStart = i
		s.quoteStrip = 0
		s.currentOp = s.pendingOp
		s.pendingOp = ""
	}
}

func (s *lineScan) endWord(scan string, i int) {
	if !s.inWord {
		return
	}
	s.words = append(s.words, wordSpan{
		start: s.wordStart,
		end:   i,
		text:  stripQuotes(scan[s.wordStart:i]),
	})
	s.inWord = false
	s.quoteStrip = 0
}

func (s *lineScan) separator(op string) {
	s.words = nil
	s.pendingOp = op
	s.currentOp = ""
}

// classify assigns the context type from the scan state, in precedence order:
// variable, redirect, assignment, command, argument.
func classify(cctx *complete.Context, s *lineScan) {
	precedingOp := s.pendingOp
	if s.inWord {
		precedingOp = s.currentOp
	}

	// Variable: the last unescaped "$" inside the current word wins over
	// every other classification.
	if s.inWord {
		if idx := lastUnescapedDollar(cctx.PartialWord); idx >= 0 {
			cctx.Type = complete.ContextVariable
			cctx.WordStart += idx + 1
			cctx.PartialWord = cctx.PartialWord[idx+1:]
			return
		}
	}

	if redirectOperators[precedingOp] {
		cctx.Type = complete.ContextRedirect
		cctx.AfterRedirect = true
		return
	}

	// Assignment: a bare NAME= prefix with no separating space. Only
	// meaningful where a command could start.
	if s.inWord && len(s.words) == 0 {
		if eq := assignmentPrefix(cctx.PartialWord); eq >= 0 {
			cctx.Type = complete.ContextAssignment
			cctx.InAssignment = true
			cctx.WordStart += eq + 1
			cctx.PartialWord = cctx.PartialWord[eq+1:]
			return
		}
	}

	if len(s.words) == 0 {
		cctx.Type = complete.ContextCommand
		return
	}

	cctx.Type = complete.ContextArgument
	cctx.CommandName = s.words[0].text
	cctx.ArgumentIndex = len(s.words) - 1
	for _, w := range s.words[1:] {
		cctx.Args = append(cctx.Args, w.text)
	}
}

// wordEnd extends the current word forward from the cursor to the next
// unquoted whitespace, so callers know the full span being replaced.
func wordEnd(buffer string, cursor int) int {
	end := cursor
	for end < len(buffer) && !unicode.IsSpace(rune(buffer[end])) {
		end++
	}
	return end
}

func lastUnescapedDollar(word string) int {
	for i := len(word) - 1; i >= 0; i-- {
		if word[i] != '$' {
			continue
		}
		if i > 0 && word[i-1] == '\\' {
			continue
		}
		return i
	}
	return -1
}

// assignmentPrefix returns the index of the "=" when the word starts with a
// valid NAME= prefix, or -1.
func assignmentPrefix(word string) int {
	eq := strings.IndexByte(word, '=')
	if eq <= 0 {
		return -1
	}
	for i, r := range word[:eq] {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return -1
	}
	return eq
}

func stripQuotes(word string) string {
	if len(word) >= 1 && (word[0] == '\'' || word[0] == '"') {
		q := word[0]
		word = word[1:]
		if len(word) >= 1 && word[len(word)-1] == q {
			word = word[:len(word)-1]
		}
	}
	return word
}
