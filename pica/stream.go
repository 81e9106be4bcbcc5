package pica

import (
	"bufio"
	"io"
	"iter"
	"strings"
)

// IdentifierFunc extracts the record identifier from a group's header
// line. Return ok=false when the line yields none.
type IdentifierFunc func(line string) (ppn string, ok bool)

// PrefixIdentifier returns an IdentifierFunc that requires the header to
// start with prefix and takes the whitespace-separated token at the given
// zero-based position as the ppn.
func PrefixIdentifier(prefix string, token int) IdentifierFunc {
	return func(line string) (string, bool) {
		if !strings.HasPrefix(line, prefix) {
			return "", false
		}
		tokens := strings.Fields(line)
		if token < 0 || token >= len(tokens) {
			return "", false
		}
		return tokens[token], true
	}
}

// DefaultIdentifier reads the header convention of WinIBW dump exports:
// the line starts with "SET:" and the ppn is the seventh token, right
// after the "PPN:" label.
var DefaultIdentifier = PrefixIdentifier("SET:", 6)

// Options carries the two knobs the parsing and streaming entry points
// share.
type Options struct {
	Separator  rune
	Identifier IdentifierFunc
}

type Option func(*Options)

// WithSeparator sets the subfield separator (default DefaultSeparator).
func WithSeparator(sep rune) Option {
	return func(o *Options) {
		o.Separator = sep
	}
}

// WithIdentifier sets how header lines are recognized and which part of
// them is the ppn (default DefaultIdentifier).
func WithIdentifier(fn IdentifierFunc) Option {
	return func(o *Options) {
		o.Identifier = fn
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{
		Separator:  DefaultSeparator,
		Identifier: DefaultIdentifier,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Group is one record group produced by GroupFold: the identifier from
// the header line plus the folded accumulator.
type Group[T any] struct {
	PPN  string
	Data T
}

// GroupFold folds the body lines of each record group in lines into an
// accumulator and yields one Group per record. A group starts at the
// first non-blank line after a blank line (or the start of input), which
// must yield an identifier and is not folded itself; the body runs to the
// next blank line or the end of input. newAcc builds a fresh accumulator
// per group and fold returns the accumulator extended by one line.
//
// A header that yields no identifier produces a *MissingIdentifierError
// and the group's remaining lines are discarded; the stream then resumes
// at the next group. Runs of blank lines produce nothing.
//
// The sequence consumes lines as it goes and is single-pass whenever
// lines is.
func GroupFold[T any](lines iter.Seq[string], newAcc func() T, fold func(T, string) T, opts ...Option) iter.Seq2[Group[T], error] {
	o := NewOptions(opts...)
	return func(yield func(Group[T], error) bool) {
		var (
			ppn      string
			acc      T
			inGroup  bool
			skipping bool
		)
		for line := range lines {
			if line == "" {
				if inGroup {
					if !yield(Group[T]{PPN: ppn, Data: acc}, nil) {
						return
					}
					var zero T
					acc = zero
					inGroup = false
				}
				skipping = false
				continue
			}
			if skipping {
				continue
			}
			if !inGroup {
				id, ok := o.Identifier(line)
				if !ok {
					if !yield(Group[T]{}, &MissingIdentifierError{Line: line}) {
						return
					}
					skipping = true
					continue
				}
				ppn = id
				acc = newAcc()
				inGroup = true
				continue
			}
			acc = fold(acc, line)
		}
		if inGroup {
			yield(Group[T]{PPN: ppn, Data: acc}, nil)
		}
	}
}

// Lines yields each record group's raw body lines, unparsed.
func Lines(lines iter.Seq[string], opts ...Option) iter.Seq2[Group[[]string], error] {
	return GroupFold(lines,
		func() []string { return nil },
		func(acc []string, line string) []string { return append(acc, line) },
		opts...)
}

// Fields yields each record group's lines split into tag and raw content,
// grouped by tag. No tag or subfield validation happens on this path.
func Fields(lines iter.Seq[string], opts ...Option) iter.Seq2[Group[*FieldMap], error] {
	return GroupFold(lines,
		NewFieldMap,
		func(m *FieldMap, line string) *FieldMap {
			tag, content, _ := strings.Cut(line, " ")
			m.Add(tag, content)
			return m
		},
		opts...)
}

// Records yields each record group fully parsed. Malformed lines surface
// as a *MalformedLineError carrying the group's ppn; the stream continues
// with the next group.
func Records(lines iter.Seq[string], opts ...Option) iter.Seq2[*Record, error] {
	o := NewOptions(opts...)
	return func(yield func(*Record, error) bool) {
		for group, err := range Lines(lines, opts...) {
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			rec, err := ParseRecord(group.PPN, group.Data, o.Separator)
			if !yield(rec, err) {
				return
			}
		}
	}
}

// Scanner returns a bufio.Scanner sized for catalog dump lines.
func Scanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc
}

// ScanLines adapts a scanner to the line sequence the stream drivers
// consume, stripping trailing whitespace from each line. Check sc.Err
// once the sequence is drained.
func ScanLines(sc *bufio.Scanner) iter.Seq[string] {
	return func(yield func(string) bool) {
		for sc.Scan() {
			if !yield(strings.TrimRight(sc.Text(), " \t\r")) {
				return
			}
		}
	}
}
