package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fid-judaica/picaparse/format"
	"github.com/fid-judaica/picaparse/pica"
)

func newTSVCmd() *cobra.Command {
	var fieldList []string
	var joinMulti string
	var freqSort bool

	cmd := &cobra.Command{
		Use:   "tsv <dump>",
		Short: "Convert a dump into tab-separated rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			fields := cfg.Fields
			if len(fieldList) > 0 {
				fields = fieldList
			}

			if freqSort {
				ordered, err := fieldsByFrequency(path, fields)
				if err != nil {
					return err
				}
				fields = ordered
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open dump: %w", err)
			}
			defer f.Close()

			bw := bufio.NewWriter(os.Stdout)
			enc := format.NewTSVEncoder(bw, fields)
			enc.JoinMulti = joinMulti
			if err := enc.WriteHeader(); err != nil {
				return fmt.Errorf("write header: %w", err)
			}

			sc := pica.Scanner(f)
			for group, err := range pica.Fields(pica.ScanLines(sc), cfg.Options()...) {
				if err != nil {
					continue
				}
				if err := enc.Encode(group.PPN, group.Data); err != nil {
					return fmt.Errorf("write row: %w", err)
				}
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read dump: %w", err)
			}
			return bw.Flush()
		},
	}

	cmd.Flags().StringSliceVarP(&fieldList, "field-list", "d", nil, "fields to use instead of the configured list")
	cmd.Flags().StringVarP(&joinMulti, "join-multi", "j", "", "join repeated fields into one cell with this string")
	cmd.Flags().BoolVarP(&freqSort, "freq-sort", "f", false, "order columns by how many records carry the field")

	return cmd
}

// fieldsByFrequency reads the dump once and reorders fields by the
// number of records each occurs in, most common first. Fields that never
// occur are dropped and the PPN column stays first.
func fieldsByFrequency(path string, fields []string) ([]string, error) {
	fieldSet := make(map[string]bool, len(fields))
	for _, field := range fields {
		fieldSet[field] = true
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	counts := make(map[string]int)
	sc := pica.Scanner(f)
	seen := pica.GroupFold(
		pica.ScanLines(sc),
		func() map[string]bool { return make(map[string]bool) },
		func(tags map[string]bool, line string) map[string]bool {
			tag, _, _ := strings.Cut(line, " ")
			if fieldSet[tag] {
				tags[tag] = true
			}
			return tags
		},
		cfg.Options()...,
	)
	for group, err := range seen {
		if err != nil {
			continue
		}
		for tag := range group.Data {
			counts[tag]++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}

	ordered := make([]string, 0, len(fields))
	for _, field := range fields {
		if field != "PPN" && counts[field] > 0 {
			ordered = append(ordered, field)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return counts[ordered[i]] > counts[ordered[j]]
	})
	return append([]string{"PPN"}, ordered...), nil
}
