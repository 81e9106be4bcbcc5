package pica

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseField parses one field line into a tag and subfields. The line is
// everything up to the first space; the rest is content split on sep.
// Content before the first separator is discarded, as is every empty
// chunk between separators. A line whose leading token is not a valid tag
// returns a *MalformedLineError.
func ParseField(line string, sep rune) (*Field, error) {
	tag, content, _ := strings.Cut(line, " ")
	if !validTag(tag) {
		return nil, &MalformedLineError{Line: line}
	}
	return &Field{tag: tag, subs: splitSubfields(content, sep)}, nil
}

// ParseFieldContent builds a field from a tag and its raw content kept
// separately, the shape record databases store them in.
func ParseFieldContent(tag, content string, sep rune) (*Field, error) {
	if !validTag(tag) {
		line := tag
		if content != "" {
			line = tag + " " + content
		}
		return nil, &MalformedLineError{Line: line}
	}
	return &Field{tag: tag, subs: splitSubfields(content, sep)}, nil
}

// ParseRecord parses a record's body lines in order. The first malformed
// line aborts the parse and is reported with the record's ppn attached.
func ParseRecord(ppn string, lines []string, sep rune) (*Record, error) {
	if ppn == "" {
		return nil, errors.New("record has no identifier")
	}
	fields := make([]*Field, 0, len(lines))
	for _, line := range lines {
		f, err := ParseField(line, sep)
		if err != nil {
			return nil, withPPN(err, ppn)
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("record %s has no fields", ppn)
	}
	return &Record{ppn: ppn, fields: fields}, nil
}

// RecordFromFields assembles a record from the raw grouped mapping the
// raw-fields adapter produces. Fields come out grouped by tag in
// first-seen tag order, each tag's contents in dump order.
func RecordFromFields(ppn string, fields *FieldMap, sep rune) (*Record, error) {
	if ppn == "" {
		return nil, errors.New("record has no identifier")
	}
	var parsed []*Field
	for _, tag := range fields.Tags() {
		for _, content := range fields.Get(tag) {
			f, err := ParseFieldContent(tag, content, sep)
			if err != nil {
				return nil, withPPN(err, ppn)
			}
			parsed = append(parsed, f)
		}
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("record %s has no fields", ppn)
	}
	return &Record{ppn: ppn, fields: parsed}, nil
}

func withPPN(err error, ppn string) error {
	var malformed *MalformedLineError
	if errors.As(err, &malformed) {
		malformed.PPN = ppn
	}
	return err
}

// validTag reports whether tag matches the Pica+ shape: three digits, one
// uppercase letter or '@', and an optional occurrence suffix of two or
// three digits, as in "002@" or "022A/01".
func validTag(tag string) bool {
	base, occurrence, hasOccurrence := strings.Cut(tag, "/")
	if len(base) != 4 {
		return false
	}
	for i := 0; i < 3; i++ {
		if base[i] < '0' || base[i] > '9' {
			return false
		}
	}
	if c := base[3]; c != '@' && (c < 'A' || c > 'Z') {
		return false
	}
	if hasOccurrence {
		if len(occurrence) < 2 || len(occurrence) > 3 {
			return false
		}
		for i := 0; i < len(occurrence); i++ {
			if occurrence[i] < '0' || occurrence[i] > '9' {
				return false
			}
		}
	}
	return true
}

func splitSubfields(content string, sep rune) []Subfield {
	if content == "" {
		return nil
	}
	chunks := strings.Split(content, string(sep))
	var subs []Subfield
	for _, chunk := range chunks[1:] {
		if chunk == "" {
			continue
		}
		code, size := utf8.DecodeRuneInString(chunk)
		subs = append(subs, Subfield{Code: code, Value: chunk[size:]})
	}
	return subs
}
