package main

import (
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/flowplan/internal/server"
)

var (
	serveAddr     string
	serveNoOracle bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve decomposition and planning over HTTP",
	Long: `Start the HTTP API:

  POST /decompose   {"text": "...", "title": "...", "granularity": "medium"}
  POST /plan        {"workflow": {...}}
  GET  /health

The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.addr)")
	serveCmd.Flags().BoolVar(&serveNoOracle, "no-oracle", false, "Use heuristics only")
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, err := newService(cfg, logger, serviceOptions{noOracle: serveNoOracle})
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	srv := server.New(server.Config{
		Addr:       addr,
		CORSOrigin: cfg.Server.CORSOrigin,
		BodyLimit:  cfg.Server.BodyLimit,
		// Two oracle attempts plus rendering headroom.
		RequestTimeout: 2*cfg.Oracle.Timeout + cfg.Oracle.Timeout/2,
	}, svc, logger)
	return srv.Run(ctx)
}
