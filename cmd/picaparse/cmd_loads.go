package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fid-judaica/picaparse/picadb"
)

func newLoadsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "loads",
		Short: "List past dump loads recorded in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = cfg.Database.Path
			}
			db, err := picadb.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			loads, err := db.Loads(cmd.Context())
			if err != nil {
				return err
			}
			if len(loads) == 0 {
				fmt.Println("No loads recorded yet")
				return nil
			}

			for _, load := range loads {
				status := "unfinished"
				if !load.Finished.IsZero() {
					status = fmt.Sprintf("%d records, %d skipped in %s",
						load.Records, load.Skipped, load.Finished.Sub(load.Started).Round(time.Millisecond))
				}
				fmt.Printf("%s  %s  %s (%s)\n",
					load.Started.Local().Format("2006-01-02 15:04:05"), load.Source, status, load.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database file (default from config)")

	return cmd
}
