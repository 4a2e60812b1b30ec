package rescache

import (
	"errors"
	"fmt"
)

var (
	ErrNilFinder    = errors.New("rescache: finder is required")
	ErrNilRecord    = errors.New("rescache: nil record")
	ErrNoPrimaryKey = errors.New("rescache: record has no primary key")
)

// InvalidateError is returned when clearing the store fails.
// Scope is the key prefix that was being cleared, or "ALL".
type InvalidateError struct {
	Scope string
	Err   error
}

func (e *InvalidateError) Error() string {
	return fmt.Sprintf("rescache: clear %s: %v", e.Scope, e.Err)
}

func (e *InvalidateError) Unwrap() error { return e.Err }
