package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fid-judaica/picaparse/pica"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <dump>",
		Short: "Summarize a dump: records, fields, tags and trouble spots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open dump: %w", err)
			}
			defer f.Close()

			type tally struct {
				fields    int
				malformed int
			}

			sep := cfg.Sep()
			tags := make(map[string]bool)
			var records, fields, malformed, unidentified int

			sc := pica.Scanner(f)
			groups := pica.GroupFold(
				pica.ScanLines(sc),
				func() *tally { return &tally{} },
				func(acc *tally, line string) *tally {
					field, err := pica.ParseField(line, sep)
					if err != nil {
						acc.malformed++
						return acc
					}
					tags[field.Tag()] = true
					acc.fields++
					return acc
				},
				cfg.Options()...,
			)
			for group, err := range groups {
				if err != nil {
					var missing *pica.MissingIdentifierError
					if errors.As(err, &missing) {
						unidentified++
						continue
					}
					return err
				}
				records++
				fields += group.Data.fields
				malformed += group.Data.malformed
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read dump: %w", err)
			}

			fmt.Printf("records\t%d\n", records)
			fmt.Printf("fields\t%d\n", fields)
			fmt.Printf("tags\t%d\n", len(tags))
			fmt.Printf("malformed lines\t%d\n", malformed)
			fmt.Printf("unidentified groups\t%d\n", unidentified)
			return nil
		},
	}

	return cmd
}
