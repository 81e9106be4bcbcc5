package pica

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// Record is one catalog record: a ppn plus its fields in dump order.
// Repeated tags stay separate entries in the sequence.
type Record struct {
	ppn    string
	fields []*Field
}

// NewRecord builds a record from already parsed fields. The ppn must be
// non-empty and at least one field is required. The field slice is copied.
func NewRecord(ppn string, fields []*Field) (*Record, error) {
	if ppn == "" {
		return nil, errors.New("record has no identifier")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("record %s has no fields", ppn)
	}
	return &Record{ppn: ppn, fields: slices.Clone(fields)}, nil
}

// PPN returns the record identifier.
func (r *Record) PPN() string {
	return r.ppn
}

// Len returns the number of fields, counting repeated tags once per
// occurrence.
func (r *Record) Len() int {
	return len(r.fields)
}

// Has reports whether at least one field with the given tag is present.
func (r *Record) Has(tag string) bool {
	for _, f := range r.fields {
		if f.tag == tag {
			return true
		}
	}
	return false
}

// Fields returns all fields with the given tag, in dump order. The result
// is nil when the tag is absent.
func (r *Record) Fields(tag string) []*Field {
	var fields []*Field
	for _, f := range r.fields {
		if f.tag == tag {
			fields = append(fields, f)
		}
	}
	return fields
}

// All returns the fields in dump order.
func (r *Record) All() iter.Seq[*Field] {
	return slices.Values(r.fields)
}

// Tags returns the distinct tags in order of first appearance.
func (r *Record) Tags() []string {
	seen := make(map[string]bool, len(r.fields))
	var tags []string
	for _, f := range r.fields {
		if !seen[f.tag] {
			seen[f.tag] = true
			tags = append(tags, f.tag)
		}
	}
	return tags
}

// Get returns the single field with the given tag. An absent tag returns
// (nil, nil); a tag occurring more than once returns a
// *MultipleFieldsError. Use Fields for tags that may repeat.
func (r *Record) Get(tag string) (*Field, error) {
	fields := r.Fields(tag)
	switch len(fields) {
	case 0:
		return nil, nil
	case 1:
		return fields[0], nil
	}
	return nil, &MultipleFieldsError{Tag: tag, Count: len(fields)}
}

// Value returns the first value of the given subfield code in the single
// field with the given tag. An absent tag or code returns the empty
// string; a repeated tag returns a *MultipleFieldsError.
func (r *Record) Value(tag string, code rune) (string, error) {
	f, err := r.Get(tag)
	if err != nil || f == nil {
		return "", err
	}
	value, _ := f.Get(code)
	return value, nil
}
