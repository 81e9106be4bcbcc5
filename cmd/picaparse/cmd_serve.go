package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fid-judaica/picaparse/ui"
)

func newServeCmd() *cobra.Command {
	var addr string
	var dbPath string
	var dsn string
	var indexPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve record lookups over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, closeSource, err := openSource(cmd.Context(), dbPath, dsn, indexPath)
			if err != nil {
				return err
			}
			defer closeSource()

			listenAddr := addr
			if listenAddr == "" {
				listenAddr = cfg.Server.Addr
			}
			displayAddr := listenAddr
			if strings.HasPrefix(listenAddr, ":") {
				displayAddr = "localhost" + listenAddr
			}
			fmt.Printf("Serving records at http://%s\n", displayAddr)
			return ui.NewServer(source).Start(listenAddr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "address to listen on (default from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database file (default from config)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string; wins over --db")
	cmd.Flags().StringVar(&indexPath, "index", "", "dump index file; wins over any database")

	return cmd
}
