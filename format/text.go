package format

import (
	"io"
	"strings"

	"github.com/fid-judaica/picaparse/pica"
)

// TextEncoder renders a record in dump notation, one field line per row.
// The ppn is not part of the output; callers that need it print it
// themselves or use the JSON encoder.
type TextEncoder struct {
	w   io.Writer
	rec *pica.Record
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(rec *pica.Record) error {
	e.rec = rec
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for f := range e.rec.All() {
		sb.WriteString(f.String())
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}
