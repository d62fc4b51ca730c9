package main

import (
	"github.com/spf13/cobra"

	"github.com/domonda/go-sorttable/internal/server"
)

var listen string

// serveCmd serves the dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard",
	Long: `Serves the dashboard page and the endpoints it loads from:

  GET /                  dashboard, optional from and to date parameters
  GET /fragments/table   table markup after an optional click=<column> or more=1
  GET /fragments/rows    rows markup of _sort, _order, _start, _end
  GET /api/products      JSON records of _sort, _order, _start, _end
  GET /api/dashboard/*   JSON chart series of from and to
  GET /healthz           liveness`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listen != "" {
			cfg.Listen = listen
		}
		s, err := server.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		return s.ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address, overrides the configuration")
}
