package errors

import (
	"fmt"
	"strings"
)

// Kind classifies a failure reported by the storage engine
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindAlreadyExists       Kind = "already_exists"
	KindInvalidDefinition   Kind = "invalid_definition"
	KindColumnCountMismatch Kind = "column_count_mismatch"
	KindTypeCoercion        Kind = "type_coercion"
	KindOutOfRange          Kind = "out_of_range"
	KindIOFailure           Kind = "io_failure"
)

// Sentinels for errors.Is checks. Every *Error matches the sentinel of its Kind.
var (
	ErrNotFound            = &Error{Kind: KindNotFound, Position: -1}
	ErrAlreadyExists       = &Error{Kind: KindAlreadyExists, Position: -1}
	ErrInvalidDefinition   = &Error{Kind: KindInvalidDefinition, Position: -1}
	ErrColumnCountMismatch = &Error{Kind: KindColumnCountMismatch, Position: -1}
	ErrTypeCoercion        = &Error{Kind: KindTypeCoercion, Position: -1}
	ErrOutOfRange          = &Error{Kind: KindOutOfRange, Position: -1}
	ErrIOFailure           = &Error{Kind: KindIOFailure, Position: -1}
)

// Error is a structured engine failure
// (missing table, bad definition, coercion failure, disk problem, etc.)
type Error struct {
	Kind     Kind   // failure class
	Table    string // table name (empty if not table-specific)
	Column   string // column name (empty if not column-specific)
	Value    any    // offending value (may be nil)
	Position int    // row position involved (-1 if none)
	Reason   string // human-readable explanation (optional)
	Err      error  // underlying cause, usually an I/O error
}

func (e *Error) Error() string {
	var parts []string

	target := e.Table
	if e.Column != "" {
		target = fmt.Sprintf("%s.%s", e.Table, e.Column)
	}
	if target != "" {
		parts = append(parts, fmt.Sprintf("%s on %s", e.Kind, target))
	} else {
		parts = append(parts, string(e.Kind))
	}

	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	if e.Position >= 0 {
		parts = append(parts, fmt.Sprintf("at row %d", e.Position))
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, " - ")
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of err if it is an *Error, or "" otherwise
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

func NewNotFound(table string) *Error {
	return &Error{
		Kind:     KindNotFound,
		Table:    table,
		Reason:   "table does not exist",
		Position: -1,
	}
}

func NewAlreadyExists(table string) *Error {
	return &Error{
		Kind:     KindAlreadyExists,
		Table:    table,
		Reason:   "table already exists",
		Position: -1,
	}
}

func NewInvalidDefinition(table, column, reason string) *Error {
	return &Error{
		Kind:     KindInvalidDefinition,
		Table:    table,
		Column:   column,
		Reason:   reason,
		Position: -1,
	}
}

func NewColumnCountMismatch(table string, expected, got int) *Error {
	return &Error{
		Kind:     KindColumnCountMismatch,
		Table:    table,
		Reason:   fmt.Sprintf("expected %d values, got %d", expected, got),
		Position: -1,
	}
}

func NewTypeCoercion(table, column string, value any, expectedType string) *Error {
	return &Error{
		Kind:     KindTypeCoercion,
		Table:    table,
		Column:   column,
		Value:    value,
		Reason:   fmt.Sprintf("cannot cast to %s", expectedType),
		Position: -1,
	}
}

func NewOutOfRange(table string, position, rowCount int) *Error {
	return &Error{
		Kind:     KindOutOfRange,
		Table:    table,
		Reason:   fmt.Sprintf("table has %d rows", rowCount),
		Position: position,
	}
}

func NewIOFailure(table, reason string, err error) *Error {
	return &Error{
		Kind:     KindIOFailure,
		Table:    table,
		Reason:   reason,
		Position: -1,
		Err:      err,
	}
}
