package complete

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the completion core. Callers are expected to test
// with errors.Is; everything else wraps one of these sentinels.
var (
	// ErrInvalidParameter reports a nil or out-of-range argument. It is
	// always checked before any side effect takes place.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound reports a lookup or unregistration of a name that does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists reports a duplicate source name.
	ErrAlreadyExists = errors.New("already exists")

	// ErrCapacity reports that a fixed-capacity registry or result set is
	// full. Capacity limits are part of the documented contract; they are
	// never silently truncated.
	ErrCapacity = errors.New("capacity exceeded")

	// ErrNotInitialized reports use of the custom-source API before its
	// registry was created or after it was closed.
	ErrNotInitialized = errors.New("not initialized")
)

// ParseError reports a malformed completion config file. The file's sources
// are skipped; the rest of the completion system stays enabled.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse completion config: %v", e.Err)
	}
	return fmt.Sprintf("parse completion config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
