package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowmetric/flowmetric/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scoring HTTP server",
		Long: `Serve starts an HTTP server exposing the scoring API.

Endpoints:
  POST /v1/evaluate  score a candidate graph against a reference
  GET  /healthz      liveness check, includes embedding backend status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			evaluator, client, err := c.newEvaluator()
			if err != nil {
				return err
			}

			var health server.HealthChecker
			if client != nil {
				health = client
			}

			srv := &http.Server{
				Addr:         addr,
				Handler:      server.New(evaluator, health, logger).Handler(),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
