package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/asksql/profile"
	"github.com/spektr-org/asksql/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, setupOptions{
			needData:   true,
			needClient: true,
			extraFlags: map[string]string{
				"server_host":  "host",
				"server_port":  "port",
				"history_size": "history",
			},
		})
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		srv := server.New(server.Config{
			DatasetName: e.data.Name(),
			Profile:     profile.Build(e.data, profile.DefaultMaxSamples),
			HistorySize: e.cfg.Server.HistorySize,
		}, e.pipeline(), e.logger)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Listen(e.cfg.Server.Addr()) }()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		e.logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			e.logger.Error("shutdown failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("host", "", "Listen host (default 127.0.0.1)")
	serveCmd.Flags().Int("port", 0, "Listen port (default 8080)")
	serveCmd.Flags().Int("history", 0, "Number of answers kept in /api/history (default 50)")
}
