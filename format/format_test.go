package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/fid-judaica/picaparse/pica"
)

func testRecord(t *testing.T) *pica.Record {
	t.Helper()
	rec, err := pica.ParseRecord("004526808", []string{
		"002@ ƒ0Aauc",
		"003O ƒaOCoLCƒ0180488447",
		"021A ƒa@Šel-lô be-derek ham-melekƒhMiryām Har'ēl",
	}, pica.DefaultSeparator)
	if err != nil {
		t.Fatalf("ParseRecord error: %v", err)
	}
	return rec
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(testRecord(t)); err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	var decoded struct {
		PPN    string `json:"ppn"`
		Fields []struct {
			Tag       string `json:"tag"`
			Subfields []struct {
				Code  string `json:"code"`
				Value string `json:"value"`
			} `json:"subfields"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if decoded.PPN != "004526808" {
		t.Errorf("ppn = %q, want %q", decoded.PPN, "004526808")
	}
	if len(decoded.Fields) != 3 {
		t.Fatalf("fields len = %d, want 3", len(decoded.Fields))
	}
	if decoded.Fields[1].Tag != "003O" {
		t.Errorf("fields[1].tag = %q, want %q", decoded.Fields[1].Tag, "003O")
	}
	subs := decoded.Fields[1].Subfields
	if len(subs) != 2 {
		t.Fatalf("subfields len = %d, want 2", len(subs))
	}
	if subs[0].Code != "a" || subs[0].Value != "OCoLC" {
		t.Errorf("subfields[0] = %s/%s, want a/OCoLC", subs[0].Code, subs[0].Value)
	}
	if subs[1].Code != "0" || subs[1].Value != "180488447" {
		t.Errorf("subfields[1] = %s/%s, want 0/180488447", subs[1].Code, subs[1].Value)
	}
}

func TestJSONEncoderOmitsEmptySubfields(t *testing.T) {
	rec, err := pica.ParseRecord("004526808", []string{"002@"}, pica.DefaultSeparator)
	if err != nil {
		t.Fatalf("ParseRecord error: %v", err)
	}

	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(rec); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if strings.Contains(buf.String(), "subfields") {
		t.Errorf("output mentions subfields for a bare tag:\n%s", buf.String())
	}
}

func TestTextEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextEncoder(&buf).Encode(testRecord(t)); err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	want := "002@ ƒ0Aauc\n" +
		"003O ƒaOCoLCƒ0180488447\n" +
		"021A ƒa@Šel-lô be-derek ham-melekƒhMiryām Har'ēl\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
