// Package picadb stores parsed catalog dumps in a database, one row per
// field, so single records can be fetched without rescanning the dump.
// SQLite is the working format; Postgres is available for shared
// deployments.
package picadb

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tliron/commonlog"

	"github.com/fid-judaica/picaparse/pica"
)

var log = commonlog.GetLogger("picadb")

const schema = `
CREATE TABLE IF NOT EXISTS records (
    id integer primary key,
    ppn varchar,
    field varchar,
    content varchar);
CREATE INDEX IF NOT EXISTS ppns on records (ppn);
CREATE INDEX IF NOT EXISTS fields on records (field);
CREATE INDEX IF NOT EXISTS ppnfield on records (ppn, field);
CREATE TABLE IF NOT EXISTS loads (
    id varchar primary key,
    source varchar,
    started varchar,
    finished varchar,
    records integer,
    skipped integer);
`

const defaultBatchSize = 10000

// DB wraps an sqlite database of pica records.
type DB struct {
	db *sql.DB

	// Separator is used when stored field content is parsed back into
	// records.
	Separator rune
	// BatchSize is the number of records committed per load
	// transaction.
	BatchSize int
}

func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &DB{
		db:        db,
		Separator: pica.DefaultSeparator,
		BatchSize: defaultBatchSize,
	}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Init creates the schema when it does not exist yet.
func (d *DB) Init(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Load streams record groups into the records table. Groups arriving
// with a stream error are skipped, logged and counted instead of
// aborting the load. Every load leaves a row in the loads audit table.
// Returns the number of records stored.
func (d *DB) Load(ctx context.Context, source string, groups iter.Seq2[pica.Group[*pica.FieldMap], error]) (int, error) {
	if err := d.Init(ctx); err != nil {
		return 0, err
	}

	batchSize := d.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	loadID := uuid.NewString()
	if _, err := d.db.ExecContext(ctx,
		"INSERT INTO loads (id, source, started) VALUES (?, ?, ?)",
		loadID, source, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("record load start: %w", err)
	}

	tx, stmt, err := d.beginBatch(ctx)
	if err != nil {
		return 0, err
	}

	stored, skipped := 0, 0
	for group, err := range groups {
		if err != nil {
			skipped++
			log.Warningf("skipping group: %s", err.Error())
			continue
		}
		for _, tag := range group.Data.Tags() {
			for _, content := range group.Data.Get(tag) {
				if _, err := stmt.ExecContext(ctx, group.PPN, tag, content); err != nil {
					tx.Rollback()
					return stored, fmt.Errorf("insert record %s: %w", group.PPN, err)
				}
			}
		}
		stored++
		if stored%batchSize == 0 {
			if err := tx.Commit(); err != nil {
				return stored, fmt.Errorf("commit batch: %w", err)
			}
			log.Infof("stored %d records", stored)
			if tx, stmt, err = d.beginBatch(ctx); err != nil {
				return stored, err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return stored, fmt.Errorf("commit batch: %w", err)
	}

	if _, err := d.db.ExecContext(ctx,
		"UPDATE loads SET finished = ?, records = ?, skipped = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339), stored, skipped, loadID); err != nil {
		return stored, fmt.Errorf("record load finish: %w", err)
	}
	log.Noticef("loaded %d records from %s (%d skipped)", stored, source, skipped)
	return stored, nil
}

func (d *DB) beginBatch(ctx context.Context) (*sql.Tx, *sql.Stmt, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO records (ppn, field, content) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("prepare insert: %w", err)
	}
	return tx, stmt, nil
}

// LoadFile loads one dump file, grouping lines with the given options.
func (d *DB) LoadFile(ctx context.Context, path string, opts ...pica.Option) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	sc := pica.Scanner(f)
	stored, err := d.Load(ctx, path, pica.Fields(pica.ScanLines(sc), opts...))
	if err != nil {
		return stored, err
	}
	if err := sc.Err(); err != nil {
		return stored, fmt.Errorf("read dump: %w", err)
	}
	return stored, nil
}

// Record fetches one record by ppn. A ppn with no rows reports
// pica.ErrNotFound.
func (d *DB) Record(ctx context.Context, ppn string) (*pica.Record, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT field, content FROM records WHERE ppn = ? ORDER BY id", ppn)
	if err != nil {
		return nil, fmt.Errorf("query record %s: %w", ppn, err)
	}
	defer rows.Close()

	fields := pica.NewFieldMap()
	for rows.Next() {
		var tag, content string
		if err := rows.Scan(&tag, &content); err != nil {
			return nil, fmt.Errorf("scan record %s: %w", ppn, err)
		}
		fields.Add(tag, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query record %s: %w", ppn, err)
	}
	if fields.Len() == 0 {
		return nil, fmt.Errorf("record %s: %w", ppn, pica.ErrNotFound)
	}
	return pica.RecordFromFields(ppn, fields, d.Separator)
}

// Fields fetches all fields with the given tag from one record. A
// record/tag pair with no rows reports pica.ErrNotFound.
func (d *DB) Fields(ctx context.Context, ppn, tag string) ([]*pica.Field, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT content FROM records WHERE ppn = ? AND field = ? ORDER BY id",
		ppn, tag)
	if err != nil {
		return nil, fmt.Errorf("query record %s field %s: %w", ppn, tag, err)
	}
	defer rows.Close()

	var fields []*pica.Field
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scan record %s field %s: %w", ppn, tag, err)
		}
		f, err := pica.ParseFieldContent(tag, content, d.Separator)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query record %s field %s: %w", ppn, tag, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("record %s field %s: %w", ppn, tag, pica.ErrNotFound)
	}
	return fields, nil
}

// Hit is one row of a tag scan: the owning ppn plus the parsed field.
type Hit struct {
	PPN   string
	Field *pica.Field
}

// FieldsByTag scans the whole database for fields with the given tag,
// streaming hits lazily. When like is true the tag is matched as a SQL
// LIKE pattern, so "045F%" covers all occurrences of a repeatable tag.
func (d *DB) FieldsByTag(ctx context.Context, tag string, like bool) iter.Seq2[Hit, error] {
	query := "SELECT ppn, field, content FROM records WHERE field = ? ORDER BY id"
	if like {
		query = "SELECT ppn, field, content FROM records WHERE field LIKE ? ORDER BY id"
	}
	return func(yield func(Hit, error) bool) {
		rows, err := d.db.QueryContext(ctx, query, tag)
		if err != nil {
			yield(Hit{}, fmt.Errorf("scan tag %s: %w", tag, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var ppn, fieldTag, content string
			if err := rows.Scan(&ppn, &fieldTag, &content); err != nil {
				yield(Hit{}, fmt.Errorf("scan tag %s: %w", tag, err))
				return
			}
			f, err := pica.ParseFieldContent(fieldTag, content, d.Separator)
			if err != nil {
				if !yield(Hit{}, err) {
					return
				}
				continue
			}
			if !yield(Hit{PPN: ppn, Field: f}, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Hit{}, fmt.Errorf("scan tag %s: %w", tag, err))
		}
	}
}

// LoadInfo is one row of the load audit trail.
type LoadInfo struct {
	ID       string
	Source   string
	Started  time.Time
	Finished time.Time // zero when the load did not complete
	Records  int
	Skipped  int
}

// Loads returns the audit trail, newest first.
func (d *DB) Loads(ctx context.Context) ([]LoadInfo, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT id, source, started, finished, records, skipped FROM loads ORDER BY started DESC")
	if err != nil {
		return nil, fmt.Errorf("query loads: %w", err)
	}
	defer rows.Close()

	var loads []LoadInfo
	for rows.Next() {
		var info LoadInfo
		var started string
		var finished sql.NullString
		var records, skipped sql.NullInt64
		if err := rows.Scan(&info.ID, &info.Source, &started, &finished, &records, &skipped); err != nil {
			return nil, fmt.Errorf("scan loads: %w", err)
		}
		if info.Started, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("parse load start: %w", err)
		}
		if finished.Valid {
			if info.Finished, err = time.Parse(time.RFC3339, finished.String); err != nil {
				return nil, fmt.Errorf("parse load finish: %w", err)
			}
		}
		info.Records = int(records.Int64)
		info.Skipped = int(skipped.Int64)
		loads = append(loads, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query loads: %w", err)
	}
	return loads, nil
}
