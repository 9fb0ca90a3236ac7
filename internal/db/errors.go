package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrInvalidIdentifier = errors.New("db: invalid identifier")
	ErrEmptyPredicate    = errors.New("db: empty predicate")
	ErrEmptyTerm         = errors.New("db: empty search term")
)

// Op constants name the SQL operation for error context.
const (
	OpSelect = "SELECT"
	OpCount  = "COUNT"
	OpExec   = "EXEC"
	OpPing   = "PING"
	OpOpen   = "OPEN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
