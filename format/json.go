package format

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/fid-judaica/picaparse/pica"
)

type JSONEncoder struct {
	w   io.Writer
	rec *pica.Record
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(rec *pica.Record) error {
	e.rec = rec
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := e.buildRecordData()
	return json.MarshalIndent(data, "", "  ")
}

type jsonRecord struct {
	PPN    string      `json:"ppn"`
	Fields []jsonField `json:"fields"`
}

type jsonField struct {
	Tag       string         `json:"tag"`
	Subfields []jsonSubfield `json:"subfields,omitempty"`
}

type jsonSubfield struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

func (e *JSONEncoder) buildRecordData() jsonRecord {
	data := jsonRecord{
		PPN:    e.rec.PPN(),
		Fields: make([]jsonField, 0, e.rec.Len()),
	}
	for f := range e.rec.All() {
		data.Fields = append(data.Fields, jsonField{
			Tag:       f.Tag(),
			Subfields: buildSubfields(f),
		})
	}
	return data
}

func buildSubfields(f *pica.Field) []jsonSubfield {
	subs := f.Subfields()
	result := make([]jsonSubfield, len(subs))
	for i, sf := range subs {
		result[i] = jsonSubfield{
			Code:  string(sf.Code),
			Value: sf.Value,
		}
	}
	return result
}
