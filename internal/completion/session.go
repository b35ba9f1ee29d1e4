package completion

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nish-sh/nish/pkg/complete"
)

// Session tracks one completion request from generation to acceptance or
// cancellation: the buffer snapshot it was generated against, the analyzed
// context, the result set, and the inline-cycling index. The surrounding
// editor keeps at most one active session per input line.
type Session struct {
	id           string
	buffer       string
	cursor       int
	context      *complete.Context
	results      *complete.Result
	originalWord string
	current      int
	active       bool
	menuMode     bool
}

// NewSession snapshots the inputs of one completion pass.
func NewSession(buffer string, cursor int, cctx *complete.Context, results *complete.Result) (*Session, error) {
	if cctx == nil || results == nil {
		return nil, fmt.Errorf("%w: session needs a context and a result set", complete.ErrInvalidParameter)
	}
	return &Session{
		id:           uuid.NewString(),
		buffer:       buffer,
		cursor:       cursor,
		context:      cctx,
		results:      results,
		originalWord: cctx.PartialWord,
		current:      -1,
		active:       true,
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Buffer returns the buffer snapshot the session was generated against.
func (s *Session) Buffer() string { return s.buffer }

// Cursor returns the cursor position of the snapshot.
func (s *Session) Cursor() int { return s.cursor }

// Context returns the analyzed completion context.
func (s *Session) Context() *complete.Context { return s.context }

// Results returns the generated result set.
func (s *Session) Results() *complete.Result { return s.results }

// OriginalWord returns the partial word as it stood when the session began,
// for restoring the line on cancel.
func (s *Session) OriginalWord() string { return s.originalWord }

// Active reports whether the session is still in progress.
func (s *Session) Active() bool { return s.active }

// MenuMode reports whether the session is driving a menu rather than inline
// cycling. The flag gates which UI the editor renders next.
func (s *Session) MenuMode() bool { return s.menuMode }

// SetMenuMode switches the session between menu and inline presentation.
func (s *Session) SetMenuMode(on bool) { s.menuMode = on }

// CycleNext advances the inline-cycling index and returns the candidate text,
// wrapping past the last candidate. Returns "" on an empty result set.
func (s *Session) CycleNext() string {
	n := s.results.Len()
	if !s.active || n == 0 {
		return ""
	}
	s.current = (s.current + 1) % n
	c, _ := s.results.At(s.current)
	return c.Text
}

// CyclePrev retreats the inline-cycling index and returns the candidate text,
// wrapping before the first candidate. Returns "" on an empty result set.
func (s *Session) CyclePrev() string {
	n := s.results.Len()
	if !s.active || n == 0 {
		return ""
	}
	if s.current <= 0 {
		s.current = n - 1
	} else {
		s.current--
	}
	c, _ := s.results.At(s.current)
	return c.Text
}

// Current returns the candidate at the cycling index without advancing it.
func (s *Session) Current() (complete.Candidate, bool) {
	if !s.active || s.current < 0 || s.current >= s.results.Len() {
		return complete.Candidate{}, false
	}
	c, _ := s.results.At(s.current)
	return c, true
}

// Accept ends the session. Inserting the accepted text is the caller's
// responsibility.
func (s *Session) Accept() { s.active = false }

// Cancel ends the session unconditionally. Safe to call repeatedly.
func (s *Session) Cancel() { s.active = false }
