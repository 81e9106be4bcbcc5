package format

import (
	"bytes"
	"slices"
	"testing"

	"github.com/fid-judaica/picaparse/pica"
)

func testFieldMap() *pica.FieldMap {
	m := pica.NewFieldMap()
	m.Add("021A", "ƒaTitle")
	m.Add("045F", "ƒa892.436")
	m.Add("045F", "ƒa892.437")
	return m
}

func TestTSVEncoderColumns(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   []string
	}{
		{
			name:   "ppn prepended",
			fields: []string{"021A", "045F"},
			want:   []string{"PPN", "021A", "045F"},
		},
		{
			name:   "ppn kept where listed",
			fields: []string{"021A", "PPN", "045F"},
			want:   []string{"021A", "PPN", "045F"},
		},
		{
			name:   "no fields",
			fields: nil,
			want:   []string{"PPN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewTSVEncoder(&bytes.Buffer{}, tt.fields)
			if got := e.Columns(); !slices.Equal(got, tt.want) {
				t.Errorf("Columns = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTSVEncoderHeader(t *testing.T) {
	var buf bytes.Buffer
	e := NewTSVEncoder(&buf, []string{"021A", "045F"})
	if err := e.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader error: %v", err)
	}
	if got := buf.String(); got != "PPN\t021A\t045F\n" {
		t.Errorf("header = %q", got)
	}
}

func TestTSVEncoderExpand(t *testing.T) {
	var buf bytes.Buffer
	e := NewTSVEncoder(&buf, []string{"021A", "045F"})
	if err := e.Encode("004526808", testFieldMap()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	// The repeated 045F expands into a continuation row; cells without a
	// value at that position stay blank, the ppn included.
	want := "004526808\tƒaTitle\tƒa892.436\n" +
		"\t\tƒa892.437\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTSVEncoderJoin(t *testing.T) {
	var buf bytes.Buffer
	e := NewTSVEncoder(&buf, []string{"021A", "045F"})
	e.JoinMulti = "; "
	if err := e.Encode("004526808", testFieldMap()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	want := "004526808\tƒaTitle\tƒa892.436; ƒa892.437\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTSVEncoderAbsentField(t *testing.T) {
	m := pica.NewFieldMap()
	m.Add("021A", "ƒaTitle")

	var buf bytes.Buffer
	e := NewTSVEncoder(&buf, []string{"021A", "036C"})
	if err := e.Encode("004526808", m); err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	want := "004526808\tƒaTitle\t\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
