package fdb

import (
	"errors"
	"fmt"
)

// Decode and encode error kinds. Every failure from Decode or the builder's
// Encode unwraps to exactly one of these, so callers can classify with
// errors.Is.
var (
	ErrTruncatedBuffer       = errors.New("declared region exceeds buffer length")
	ErrOffsetOutOfRange      = errors.New("offset out of range")
	ErrSchemaMismatch        = errors.New("field kind disagrees with column kind")
	ErrStringDecode          = errors.New("string decode failed")
	ErrInvalidTableDirectory = errors.New("invalid table directory")
)

// FormatError describes where in the file a decode or encode failed.
type FormatError struct {
	Kind   error  // one of the sentinel kinds above
	Table  string // offending table name, when known
	Offset uint32 // offending offset, when known
	Detail string
}

func (e *FormatError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg = e.Detail + ": " + msg
	}
	if e.Table != "" {
		msg = fmt.Sprintf("table %q: %s", e.Table, msg)
	}
	return fmt.Sprintf("fdb: %s (offset %d)", msg, e.Offset)
}

func (e *FormatError) Unwrap() error {
	return e.Kind
}

func formatErr(kind error, table string, offset uint32, detail string) *FormatError {
	return &FormatError{Kind: kind, Table: table, Offset: offset, Detail: detail}
}
