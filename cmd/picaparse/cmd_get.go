package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fid-judaica/picaparse/format"
	"github.com/fid-judaica/picaparse/index"
	"github.com/fid-judaica/picaparse/picadb"
	"github.com/fid-judaica/picaparse/ui"
)

func newGetCmd() *cobra.Command {
	var dbPath string
	var dsn string
	var indexPath string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "get <ppn>",
		Short: "Print one record by ppn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ppn := args[0]
			ctx := cmd.Context()

			source, closeSource, err := openSource(ctx, dbPath, dsn, indexPath)
			if err != nil {
				return err
			}
			defer closeSource()

			rec, err := source.Record(ctx, ppn)
			if err != nil {
				return err
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "text":
				encoder = format.NewTextEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			if err := encoder.Encode(rec); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if outputFormat == "json" {
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database file (default from config)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string; wins over --db")
	cmd.Flags().StringVar(&indexPath, "index", "", "dump index file; wins over any database")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, text)")

	return cmd
}

// openSource picks the record backend: the index file when given, else
// Postgres when a DSN is set, else the sqlite database.
func openSource(ctx context.Context, dbPath, dsn, indexPath string) (ui.RecordSource, func() error, error) {
	if indexPath != "" {
		ix, err := index.Open(indexPath, cfg.Options()...)
		if err != nil {
			return nil, nil, err
		}
		return ix, ix.Close, nil
	}
	if dsn == "" && dbPath == "" {
		dsn = cfg.Database.DSN
		dbPath = cfg.Database.Path
	}
	if dsn != "" {
		pg, err := picadb.OpenPG(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		pg.Separator = cfg.Sep()
		return pg, func() error { pg.Close(); return nil }, nil
	}
	db, err := picadb.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	db.Separator = cfg.Sep()
	return db, db.Close, nil
}
