package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fid-judaica/picaparse/picadb"
)

func newLoadCmd() *cobra.Command {
	var dbPath string
	var dsn string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "load <dump>",
		Short: "Load a dump into a record database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ctx := cmd.Context()

			if dsn == "" && dbPath == "" {
				dsn = cfg.Database.DSN
				dbPath = cfg.Database.Path
			}

			if dsn != "" {
				pg, err := picadb.OpenPG(ctx, dsn)
				if err != nil {
					return fmt.Errorf("connect: %w", err)
				}
				defer pg.Close()
				pg.Separator = cfg.Sep()

				stored, err := pg.LoadFile(ctx, path, cfg.Options()...)
				if err != nil {
					return fmt.Errorf("load: %w", err)
				}
				fmt.Printf("loaded %d records\n", stored)
				return nil
			}

			db, err := picadb.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()
			db.Separator = cfg.Sep()
			if batchSize > 0 {
				db.BatchSize = batchSize
			}

			stored, err := db.LoadFile(ctx, path, cfg.Options()...)
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			fmt.Printf("loaded %d records\n", stored)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database file (default from config)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string; wins over --db")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "rows per transaction (sqlite only)")

	return cmd
}
