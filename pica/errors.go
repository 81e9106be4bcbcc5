package pica

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a ppn that is absent from a record store.
var ErrNotFound = errors.New("record not found")

// MalformedLineError reports a field line whose leading token does not
// form a valid Pica+ tag.
type MalformedLineError struct {
	PPN  string // record the line belongs to, when known
	Line string
}

func (e *MalformedLineError) Error() string {
	if e.PPN == "" {
		return fmt.Sprintf("malformed field line %q", e.Line)
	}
	return fmt.Sprintf("record %s: malformed field line %q", e.PPN, e.Line)
}

// MultipleFieldsError reports a Record.Get call on a tag that occurs more
// than once in the record.
type MultipleFieldsError struct {
	Tag   string
	Count int
}

func (e *MultipleFieldsError) Error() string {
	return fmt.Sprintf("tag %s occurs %d times; use Fields for repeatable tags", e.Tag, e.Count)
}

// MissingIdentifierError reports a record group whose header line does not
// yield an identifier.
type MissingIdentifierError struct {
	Line string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("no record identifier in header line %q", e.Line)
}
