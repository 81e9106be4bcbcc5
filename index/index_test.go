package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fid-judaica/picaparse/pica"
)

const testDump = `SET: S1 [1] TTL: 1 PPN: 004526808 SEITE1
002@ ƒ0Aauc
021A ƒa@Šel-lô be-derek ham-melekƒhMiryām Har'ēl
045F ƒa892.4

SET: S2 [1] TTL: 2 PPN: 012345678 SEITE1
002@ ƒ0Aau
021A ƒaAnother title`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	return path
}

func TestScanOffsets(t *testing.T) {
	entries := map[string]int64{}
	for entry, err := range Scan(strings.NewReader(testDump)) {
		if err != nil {
			t.Fatalf("Scan error: %v", err)
		}
		entries[entry.PPN] = entry.Offset
	}

	// The trailing newline keeps the shorter line from matching inside
	// the longer one.
	want := map[string]string{
		"004526808": "002@ ƒ0Aauc\n",
		"012345678": "002@ ƒ0Aau\n",
	}
	if len(entries) != len(want) {
		t.Fatalf("Scan found %d entries, want %d", len(entries), len(want))
	}
	for ppn, firstLine := range want {
		offset, ok := entries[ppn]
		if !ok {
			t.Fatalf("Scan missed ppn %s", ppn)
		}
		if got := int64(strings.Index(testDump, firstLine)); offset != got {
			t.Errorf("offset for %s = %d, want %d", ppn, offset, got)
		}
	}
}

func TestBuildAndRecord(t *testing.T) {
	ix, err := Build(writeDump(t, testDump))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer ix.Close()

	if ix.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ix.Len())
	}

	rec, err := ix.Record(context.Background(), "004526808")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.PPN() != "004526808" {
		t.Errorf("PPN() = %q, want %q", rec.PPN(), "004526808")
	}
	if rec.Len() != 3 {
		t.Errorf("Len() = %d, want 3", rec.Len())
	}
	if got, _ := rec.Value("021A", 'h'); got != "Miryām Har'ēl" {
		t.Errorf("Value(021A, h) = %q, want %q", got, "Miryām Har'ēl")
	}

	// The last record has neither a trailing newline nor a blank line
	// after it.
	rec, err = ix.Record(context.Background(), "012345678")
	if err != nil {
		t.Fatalf("Record at EOF: %v", err)
	}
	if rec.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rec.Len())
	}
}

func TestRecordNotFound(t *testing.T) {
	ix, err := Build(writeDump(t, testDump))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer ix.Close()

	if _, err := ix.Record(context.Background(), "999999999"); !errors.Is(err, pica.ErrNotFound) {
		t.Errorf("Record(unknown) = %v, want pica.ErrNotFound", err)
	}
	if ix.Has("999999999") {
		t.Error("Has(unknown) = true, want false")
	}
}

func TestWriteTSVAndOpen(t *testing.T) {
	dumpPath := writeDump(t, testDump)
	ix, err := Build(dumpPath)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	indexPath := filepath.Join(filepath.Dir(dumpPath), "dump.idx")
	out, err := os.Create(indexPath)
	if err != nil {
		t.Fatalf("create index file: %v", err)
	}
	if err := ix.WriteTSV(out); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("close index file: %v", err)
	}
	ix.Close()

	raw, err := os.ReadFile(indexPath)
	if err != nil {
		t.Fatalf("read index file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("index has %d lines, want 3", len(lines))
	}
	abs, _ := filepath.Abs(dumpPath)
	if lines[0] != abs {
		t.Errorf("first line = %q, want dump path %q", lines[0], abs)
	}
	if !strings.HasPrefix(lines[1], "004526808\t") {
		t.Errorf("rows not in dump order: %q", lines[1])
	}

	reopened, err := Open(indexPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	if reopened.Len() != 2 {
		t.Fatalf("Len() after Open = %d, want 2", reopened.Len())
	}
	rec, err := reopened.Record(context.Background(), "012345678")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got, _ := rec.Value("021A", 'a'); got != "Another title" {
		t.Errorf("Value(021A, a) = %q, want %q", got, "Another title")
	}
}

func TestBuildSkipsHeaderlessGroups(t *testing.T) {
	dump := "021A ƒano header here\n\n" + testDump
	ix, err := Build(writeDump(t, dump))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer ix.Close()

	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ix.Len())
	}
	if !ix.Has("004526808") || !ix.Has("012345678") {
		t.Errorf("valid groups missing after skip: %v", ix.offsets)
	}
}
