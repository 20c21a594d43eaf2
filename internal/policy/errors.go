package policy

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a Store that holds no table yet.
	ErrNotFound = errors.New("policy: no stored table")

	// ErrStoreIO marks read/write failures of the underlying store.
	ErrStoreIO = errors.New("policy: store i/o")

	// ErrInvalidConfig is returned by NewEngine for out-of-range parameters.
	ErrInvalidConfig = errors.New("policy: invalid config")
)

// CorruptStateError reports a store that exists but does not hold a
// parseable table. Learned values are never discarded silently; the caller
// decides whether to reset or abort.
type CorruptStateError struct {
	Store string
	Err   error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("policy: corrupt table in %s: %v", e.Store, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }
