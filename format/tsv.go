package format

import (
	"io"
	"slices"
	"strings"

	"github.com/fid-judaica/picaparse/pica"
)

// TSVEncoder writes one tab-separated row per record, with one column
// per configured field tag. It consumes the raw-fields stream shape
// because column extraction never needs subfields.
type TSVEncoder struct {
	w       io.Writer
	columns []string

	// JoinMulti, when non-empty, joins the contents of a repeated field
	// into a single cell. When empty, a repeated field expands into
	// continuation rows with the remaining cells blank.
	JoinMulti string
}

// NewTSVEncoder builds an encoder for the given field tags. The pseudo
// column "PPN" carries the record identifier; when fields does not name
// it, it is prepended.
func NewTSVEncoder(w io.Writer, fields []string) *TSVEncoder {
	var columns []string
	if !slices.Contains(fields, "PPN") {
		columns = append(columns, "PPN")
	}
	columns = append(columns, fields...)
	return &TSVEncoder{w: w, columns: columns}
}

// Columns returns the output columns in order.
func (e *TSVEncoder) Columns() []string {
	return e.columns
}

// WriteHeader writes the column-name row.
func (e *TSVEncoder) WriteHeader() error {
	_, err := io.WriteString(e.w, strings.Join(e.columns, "\t")+"\n")
	return err
}

// Encode writes the row (or rows) for one record.
func (e *TSVEncoder) Encode(ppn string, fields *pica.FieldMap) error {
	if e.JoinMulti != "" {
		return e.encodeJoined(ppn, fields)
	}
	return e.encodeExpanded(ppn, fields)
}

func (e *TSVEncoder) encodeJoined(ppn string, fields *pica.FieldMap) error {
	var sb strings.Builder
	for i, col := range e.columns {
		if i > 0 {
			sb.WriteByte('\t')
		}
		if col == "PPN" {
			sb.WriteString(ppn)
			continue
		}
		sb.WriteString(strings.Join(fields.Get(col), e.JoinMulti))
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(e.w, sb.String())
	return err
}

func (e *TSVEncoder) encodeExpanded(ppn string, fields *pica.FieldMap) error {
	rows := 1
	for _, col := range e.columns {
		if col == "PPN" {
			continue
		}
		if n := len(fields.Get(col)); n > rows {
			rows = n
		}
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for i, col := range e.columns {
			if i > 0 {
				sb.WriteByte('\t')
			}
			if col == "PPN" {
				if row == 0 {
					sb.WriteString(ppn)
				}
				continue
			}
			if contents := fields.Get(col); row < len(contents) {
				sb.WriteString(contents[row])
			}
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}
