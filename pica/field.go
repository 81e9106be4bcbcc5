package pica

import "strings"

// DefaultSeparator is the subfield separator conventionally used in Pica+
// dumps, the florin sign U+0192.
const DefaultSeparator rune = 'ƒ'

// Subfield is a single code/value pair within a field.
type Subfield struct {
	Code  rune
	Value string
}

// Field is one field line of a record: a tag plus the subfields parsed
// from the line's content.
type Field struct {
	tag  string
	subs []Subfield
}

// NewField builds a field from already separated parts. The subfield slice
// is copied.
func NewField(tag string, subs []Subfield) *Field {
	return &Field{tag: tag, subs: append([]Subfield(nil), subs...)}
}

// Tag returns the field tag, including any occurrence suffix such as
// "022A/01".
func (f *Field) Tag() string {
	return f.tag
}

// Len returns the number of subfields.
func (f *Field) Len() int {
	return len(f.subs)
}

// Subfields returns a copy of the subfields in line order.
func (f *Field) Subfields() []Subfield {
	return append([]Subfield(nil), f.subs...)
}

// Get returns the value of the first subfield with the given code.
// Subfield codes may repeat within a field; Values returns all of them.
func (f *Field) Get(code rune) (string, bool) {
	for _, sf := range f.subs {
		if sf.Code == code {
			return sf.Value, true
		}
	}
	return "", false
}

// Values returns the values of all subfields with the given code, in line
// order.
func (f *Field) Values(code rune) []string {
	var values []string
	for _, sf := range f.subs {
		if sf.Code == code {
			values = append(values, sf.Value)
		}
	}
	return values
}

// Has reports whether the field contains a subfield with the given code.
func (f *Field) Has(code rune) bool {
	_, ok := f.Get(code)
	return ok
}

// String renders the field in dump notation with the conventional
// separator.
func (f *Field) String() string {
	if len(f.subs) == 0 {
		return f.tag
	}
	var sb strings.Builder
	sb.WriteString(f.tag)
	sb.WriteByte(' ')
	for _, sf := range f.subs {
		sb.WriteRune(DefaultSeparator)
		sb.WriteRune(sf.Code)
		sb.WriteString(sf.Value)
	}
	return sb.String()
}
