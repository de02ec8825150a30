package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/webpilot/webpilot/pkg/config"
	"github.com/webpilot/webpilot/pkg/report"
	"github.com/webpilot/webpilot/pkg/runner"
	"github.com/webpilot/webpilot/pkg/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP front end for submitting test batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			store := report.NewStore(cfg.Report.Path, cfg.Report.TestSuite)
			registry := runner.NewRegistry()

			batch, err := newBatchFunc(cfg, store)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg.Server.ListenAddr, cfg.Server.MaxConnections, registry, store, batch)
			return srv.Run(ctx)
		},
	}
}
