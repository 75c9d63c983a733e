// File: cmd/serve.go
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/simflow/internal/activation"
	"github.com/xkilldash9x/simflow/internal/config"
	"github.com/xkilldash9x/simflow/internal/observability"
	"github.com/xkilldash9x/simflow/internal/server"
)

// newServeCmd creates the `serve` command: an HTTP surface that triggers a
// full activation run per POST. Concurrent triggers are rejected; the surface
// enforces the run-level mutual exclusion the core deliberately leaves to its
// caller.
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the HTTP control surface for triggering activation runs",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := observability.GetLogger()

			cfg, err := config.NewFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			if cfg.Activation.URL == "" {
				return fmt.Errorf("activation.url is not configured (set SIMFLOW_ACTIVATION_URL or config.yaml)")
			}

			trigger := func(runCtx context.Context, runID string) (activation.Summary, error) {
				return performRun(runCtx, cfg, logger, runID)
			}

			srv := server.New(cfg.Server, logger, trigger)
			if err := srv.ListenAndServe(ctx); err != nil {
				logger.Error("Control server failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	serveCmd.Flags().String("addr", "", "Listen address for the control server. (Overrides config/env)")
	return serveCmd
}
