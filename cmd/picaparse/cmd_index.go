package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fid-judaica/picaparse/index"
)

func newIndexCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "index <dump>",
		Short: "Write a ppn to byte-offset index for a dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := index.Build(args[0], cfg.Options()...)
			if err != nil {
				return fmt.Errorf("index dump: %w", err)
			}
			defer ix.Close()

			if output == "" {
				return ix.WriteTSV(os.Stdout)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create index file: %w", err)
			}
			if err := ix.WriteTSV(f); err != nil {
				f.Close()
				return fmt.Errorf("write index: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write index: %w", err)
			}
			fmt.Printf("indexed %d records to %s\n", ix.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the index here instead of stdout")

	return cmd
}
