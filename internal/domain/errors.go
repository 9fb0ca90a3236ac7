package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals a search request that failed validation.
	ErrInvalidRequest = errors.New("invalid search request")
	// ErrTableNotFound signals a table missing from the catalog.
	ErrTableNotFound = errors.New("table not found")
	// ErrUnknownField signals a requested field outside the table's allow-list.
	ErrUnknownField = errors.New("unknown search field")
)

// UnknownFieldError wraps ErrUnknownField with the offending field and table.
type UnknownFieldError struct {
	Field string
	Table string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: %q is not a searchable column of %q", ErrUnknownField.Error(), e.Field, e.Table)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// NewUnknownField creates an unknown field error.
func NewUnknownField(field, table string) error {
	return &UnknownFieldError{Field: field, Table: table}
}
