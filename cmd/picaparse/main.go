package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/fid-judaica/picaparse/config"

	_ "github.com/tliron/commonlog/simple"
)

var cfg = config.Default()

func main() {
	var configPath string
	var separator string
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "picaparse",
		Short: "Parse, convert and query library catalog dumps",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(verbosity, nil)
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if separator != "" {
				cfg.Separator = separator
				return cfg.Validate()
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.toml, .yaml)")
	rootCmd.PersistentFlags().StringVarP(&separator, "separator", "s", "", "subfield separator; wins over the config file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "more logging (repeatable)")

	rootCmd.AddCommand(newTSVCmd())
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newLoadsCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
