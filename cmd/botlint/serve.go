package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"botlint/internal/metrics"
	"botlint/internal/server"
	"botlint/internal/slogutil"
)

const serveCmdName = "serve"

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		logFile string
	)
	cmd := &cobra.Command{
		Use:   serveCmdName,
		Short: "Serve the HTTP API",
		Long: `Serve validation, usage, summary and typo checks over HTTP.

Endpoints:
  POST /api/validate   body: bot export; query: oracle, usage, save, check (repeatable), source
  POST /api/usage      intent and entity usage
  POST /api/summary    scenarios and variables
  POST /api/typos      typo check (needs an oracle API key)
  GET  /api/runs       archived runs (?limit=)
  GET  /api/runs/:id   one archived report
  GET  /healthz
  GET  /metrics        Prometheus metrics

When server.tokenHash is configured (see 'botlint token'), /api routes need
an "Authorization: Bearer <token>" header.

Logs go to stderr and .botlint/logs/server.log unless --log-file is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := a.logs.ServerLogger()
			if logFile != "" {
				l, file, err := slogutil.NewFileLogger(logFile, a.logs.Level())
				if err != nil {
					return err
				}
				defer file.Close()
				logger = l
			}
			a.logger = logger
			a.metrics = metrics.New()

			svc, err := a.service(a.cfg.History.Enabled)
			if err != nil {
				return err
			}

			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			srv := server.New(cfg, svc, a.metrics, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr from config)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file only")
	return cmd
}
