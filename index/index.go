// Package index offers ppn to byte-offset lookups over a dump file. An
// index is far cheaper to build and use than the record database, at the
// price of answering nothing but whole-record lookups.
package index

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/fid-judaica/picaparse/pica"
)

var log = commonlog.GetLogger("index")

// maxRecordSize bounds how far past its offset a single record may
// reach.
const maxRecordSize = 1 << 20

// Entry locates one record group: its ppn and the byte offset of its
// first body line.
type Entry struct {
	PPN    string
	Offset int64
}

// Scan reads a dump once and yields one entry per record group. Group
// headers that yield no identifier surface as *pica.MissingIdentifierError
// and the scan continues.
func Scan(r io.Reader, opts ...pica.Option) iter.Seq2[Entry, error] {
	o := pica.NewOptions(opts...)
	return func(yield func(Entry, error) bool) {
		br := bufio.NewReaderSize(r, 64*1024)
		var offset int64
		atBoundary := true
		for {
			line, err := br.ReadString('\n')
			if err != nil && err != io.EOF {
				yield(Entry{}, fmt.Errorf("read dump: %w", err))
				return
			}
			if line == "" && err == io.EOF {
				return
			}
			offset += int64(len(line))
			trimmed := strings.TrimRight(line, " \t\r\n")
			if trimmed == "" {
				atBoundary = true
			} else if atBoundary {
				atBoundary = false
				ppn, ok := o.Identifier(trimmed)
				if !ok {
					if !yield(Entry{}, &pica.MissingIdentifierError{Line: trimmed}) {
						return
					}
				} else if !yield(Entry{PPN: ppn, Offset: offset}, nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
		}
	}
}

// Index maps ppns to their byte offsets in an open dump file.
type Index struct {
	path    string
	file    *os.File
	offsets map[string]int64
	opts    pica.Options
}

// Build indexes a dump by scanning it once. Groups without an
// identifier are logged and left out.
func Build(path string, opts ...pica.Option) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}

	offsets := make(map[string]int64)
	for entry, err := range Scan(f, opts...) {
		if err != nil {
			var missing *pica.MissingIdentifierError
			if errors.As(err, &missing) {
				log.Warningf("%s", err.Error())
				continue
			}
			f.Close()
			return nil, err
		}
		offsets[entry.PPN] = entry.Offset
	}

	return &Index{
		path:    path,
		file:    f,
		offsets: offsets,
		opts:    pica.NewOptions(opts...),
	}, nil
}

// Open loads a TSV index written by WriteTSV and opens the dump file it
// names.
func Open(indexPath string, opts ...pica.Option) (*Index, error) {
	f, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read index: %w", err)
		}
		return nil, fmt.Errorf("index %s is empty", indexPath)
	}
	dumpPath := strings.TrimRight(sc.Text(), " \t\r")

	offsets := make(map[string]int64)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" {
			continue
		}
		ppn, offsetText, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("index %s: malformed row %q", indexPath, line)
		}
		offset, err := strconv.ParseInt(offsetText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("index %s: malformed offset in row %q", indexPath, line)
		}
		offsets[ppn] = offset
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	dump, err := os.Open(dumpPath)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	return &Index{
		path:    dumpPath,
		file:    dump,
		offsets: offsets,
		opts:    pica.NewOptions(opts...),
	}, nil
}

// WriteTSV writes the index in its file format: the dump's absolute
// path on the first line, then one ppn and offset per row, in dump
// order.
func (ix *Index) WriteTSV(w io.Writer) error {
	abs, err := filepath.Abs(ix.path)
	if err != nil {
		return fmt.Errorf("resolve dump path: %w", err)
	}

	entries := make([]Entry, 0, len(ix.offsets))
	for ppn, offset := range ix.offsets {
		entries = append(entries, Entry{PPN: ppn, Offset: offset})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Offset < entries[j].Offset })

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, abs)
	for _, entry := range entries {
		fmt.Fprintf(bw, "%s\t%d\n", entry.PPN, entry.Offset)
	}
	return bw.Flush()
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.offsets)
}

// Has reports whether the ppn is indexed.
func (ix *Index) Has(ppn string) bool {
	_, ok := ix.offsets[ppn]
	return ok
}

// Record reads and parses the record at the ppn's offset. An unindexed
// ppn reports pica.ErrNotFound. Reads go through ReadAt, so lookups are
// safe for concurrent use.
func (ix *Index) Record(ctx context.Context, ppn string) (*pica.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	offset, ok := ix.offsets[ppn]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", ppn, pica.ErrNotFound)
	}

	section := io.NewSectionReader(ix.file, offset, maxRecordSize)
	sc := pica.Scanner(section)
	var lines []string
	for line := range pica.ScanLines(sc) {
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read record %s: %w", ppn, err)
	}
	return pica.ParseRecord(ppn, lines, ix.opts.Separator)
}

func (ix *Index) Close() error {
	return ix.file.Close()
}
