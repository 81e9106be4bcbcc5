package format

import (
	"encoding"

	"github.com/fid-judaica/picaparse/pica"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(rec *pica.Record) error
}
