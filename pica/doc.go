// Package pica parses Pica+ catalog records from the line-oriented dump
// format used by OPAC library systems.
//
// # Overview
//
// A dump is a stream of record groups separated by blank lines. Each
// group starts with a header line naming the record's ppn (the persistent
// record identifier) and continues with one field line per row:
//
//	SET: S1 [8] TTL: 1 PPN: 004526808 ...
//	002@ ƒ0Aauc
//	003O ƒaOCoLCƒ0180488447
//	021A ƒa@Šel-lô be-derek ham-melekƒhMiryām Har'ēl
//
// A field line is a tag ("003O", "022A/01"), one space, and the content.
// The content is a run of subfields, each introduced by a separator rune
// (conventionally ƒ) followed by a one-rune code and the value. Anything
// before the first separator is discarded, so content written with the
// wrong separator parses to a field with no subfields rather than
// garbage.
//
// # Streaming
//
// Dumps routinely hold millions of records, so everything is built
// around single-pass iterator pipelines:
//
//	┌──────────┐    ┌───────────┐    ┌────────────┐    ┌──────────┐
//	│  Reader  │───▶│ ScanLines │───▶│ GroupFold  │───▶│ consumer │
//	│  (dump)  │    │ (strings) │    │ (groups)   │    │          │
//	└──────────┘    └───────────┘    └────────────┘    └──────────┘
//
// GroupFold is the generic driver: it cuts the line stream at blank
// lines, extracts the ppn from each header, and folds the body lines
// into a caller-supplied accumulator. Three adapters cover the usual
// shapes:
//
//	// raw body lines, no parsing
//	func Lines(lines iter.Seq[string], opts ...Option) iter.Seq2[Group[[]string], error]
//
//	// tag → raw content multimap, no subfield parsing
//	func Fields(lines iter.Seq[string], opts ...Option) iter.Seq2[Group[*FieldMap], error]
//
//	// fully parsed records
//	func Records(lines iter.Seq[string], opts ...Option) iter.Seq2[*Record, error]
//
// The raw adapters exist because bulk tools (database loaders, column
// extractors) rarely need subfields; skipping that work roughly halves
// the cost of a pass over a dump.
//
// # Error Handling
//
// Streams report problems in-band as the error half of each yielded
// pair and keep going, so one damaged group does not abort a
// multi-gigabyte load:
//
//	*MissingIdentifierError  header line yields no ppn; group skipped
//	*MalformedLineError      bad tag in a field line, carries the ppn
//	*MultipleFieldsError     Record.Get on a repeated tag
//
// Lookups that miss are not errors: Record.Get returns (nil, nil) for an
// absent tag, Field.Get returns ("", false) for an absent code. Stores
// built on top of this package report a missing ppn as ErrNotFound.
//
// # Configuration
//
//	type Option func(*Options)
//
//	// WithSeparator sets the subfield separator (default ƒ).
//	func WithSeparator(sep rune) Option
//
//	// WithIdentifier sets how header lines are recognized.
//	func WithIdentifier(fn IdentifierFunc) Option
//
// The default identifier rule matches WinIBW exports, where the header
// is "SET: ..." and the ppn is the seventh whitespace-separated token.
// Dumps from other sources plug in their own IdentifierFunc.
//
// # Thread Safety
//
// Records and Fields are immutable after construction and safe to share.
// The iterator pipelines are single-pass and not safe for concurrent
// consumption; build one pipeline per goroutine.
//
// # Example Usage
//
//	f, _ := os.Open("dump.txt")
//	defer f.Close()
//
//	sc := pica.Scanner(f)
//	for rec, err := range pica.Records(pica.ScanLines(sc)) {
//		if err != nil {
//			log.Errorf("%s", err.Error())
//			continue
//		}
//		title, err := rec.Value("021A", 'a')
//		if err != nil {
//			continue
//		}
//		fmt.Println(rec.PPN(), title)
//	}
//	if err := sc.Err(); err != nil {
//		return err
//	}
package pica
