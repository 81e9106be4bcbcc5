package picadb

import (
	"context"
	"fmt"
	"iter"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fid-judaica/picaparse/pica"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS records (
    id bigserial primary key,
    ppn text not null,
    field text not null,
    content text not null);
CREATE INDEX IF NOT EXISTS ppns on records (ppn);
CREATE INDEX IF NOT EXISTS fields on records (field);
CREATE INDEX IF NOT EXISTS ppnfield on records (ppn, field);
CREATE TABLE IF NOT EXISTS loads (
    id text primary key,
    source text not null,
    started timestamptz not null,
    finished timestamptz,
    records bigint,
    skipped bigint);
`

// PG is the Postgres-backed record store. Loads go through the COPY
// protocol.
type PG struct {
	pool *pgxpool.Pool

	// Separator is used when stored field content is parsed back into
	// records.
	Separator rune
}

func OpenPG(ctx context.Context, dsn string) (*PG, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PG{pool: pool, Separator: pica.DefaultSeparator}, nil
}

func (p *PG) Close() {
	p.pool.Close()
}

// Init creates the schema when it does not exist yet.
func (p *PG) Init(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Load bulk-copies record groups into the records table. Groups arriving
// with a stream error are skipped, logged and counted. Every load leaves
// a row in the loads audit table. Returns the number of records stored.
func (p *PG) Load(ctx context.Context, source string, groups iter.Seq2[pica.Group[*pica.FieldMap], error]) (int, error) {
	if err := p.Init(ctx); err != nil {
		return 0, err
	}

	loadID := uuid.NewString()
	if _, err := p.pool.Exec(ctx,
		"INSERT INTO loads (id, source, started) VALUES ($1, $2, now())",
		loadID, source); err != nil {
		return 0, fmt.Errorf("record load start: %w", err)
	}

	next, stop := iter.Pull2(groups)
	defer stop()

	stored, skipped := 0, 0
	var pending [][]any
	rows := pgx.CopyFromFunc(func() ([]any, error) {
		for {
			if len(pending) > 0 {
				row := pending[0]
				pending = pending[1:]
				return row, nil
			}
			group, err, ok := next()
			if !ok {
				return nil, nil
			}
			if err != nil {
				skipped++
				log.Warningf("skipping group: %s", err.Error())
				continue
			}
			for _, tag := range group.Data.Tags() {
				for _, content := range group.Data.Get(tag) {
					pending = append(pending, []any{group.PPN, tag, content})
				}
			}
			stored++
		}
	})

	if _, err := p.pool.CopyFrom(ctx, pgx.Identifier{"records"},
		[]string{"ppn", "field", "content"}, rows); err != nil {
		return stored, fmt.Errorf("copy records: %w", err)
	}

	if _, err := p.pool.Exec(ctx,
		"UPDATE loads SET finished = now(), records = $1, skipped = $2 WHERE id = $3",
		stored, skipped, loadID); err != nil {
		return stored, fmt.Errorf("record load finish: %w", err)
	}
	log.Noticef("loaded %d records from %s (%d skipped)", stored, source, skipped)
	return stored, nil
}

// LoadFile loads one dump file, grouping lines with the given options.
func (p *PG) LoadFile(ctx context.Context, path string, opts ...pica.Option) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	sc := pica.Scanner(f)
	stored, err := p.Load(ctx, path, pica.Fields(pica.ScanLines(sc), opts...))
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
func (p *PG) Record(ctx context.Context, ppn string) (*pica.Record, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT field, content FROM records WHERE ppn = $1 ORDER BY id", ppn)
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
	return pica.RecordFromFields(ppn, fields, p.Separator)
}
