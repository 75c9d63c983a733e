// File: cmd/run.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/simflow/internal/activation"
	"github.com/xkilldash9x/simflow/internal/browser"
	"github.com/xkilldash9x/simflow/internal/config"
	"github.com/xkilldash9x/simflow/internal/input"
	"github.com/xkilldash9x/simflow/internal/observability"
	"github.com/xkilldash9x/simflow/internal/reporting"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Activates every ICCID in the input file and writes the result report",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so command-line flags correctly
			// override values from the config file and environment.
			if err := viper.BindPFlag("input.path", cmd.Flags().Lookup("input")); err != nil {
				return err
			}
			if err := viper.BindPFlag("output.results_file", cmd.Flags().Lookup("output")); err != nil {
				return err
			}
			if err := viper.BindPFlag("output.invalid_file", cmd.Flags().Lookup("invalid-output")); err != nil {
				return err
			}
			if err := viper.BindPFlag("activation.concurrency", cmd.Flags().Lookup("concurrency")); err != nil {
				return err
			}
			if err := viper.BindPFlag("activation.max_retries", cmd.Flags().Lookup("retries")); err != nil {
				return err
			}
			return viper.BindPFlag("activation.url", cmd.Flags().Lookup("url"))
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
				return fmt.Errorf("activation.url is not configured (set --url, SIMFLOW_ACTIVATION_URL, or config.yaml)")
			}

			runID := uuid.New().String()
			summary, err := performRun(ctx, cfg, logger, runID)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					logger.Warn("Run aborted gracefully", zap.String("run_id", runID))
					return fmt.Errorf("run aborted by user signal")
				}
				return err
			}

			fmt.Printf("\nRun Complete. Run ID: %s\n", runID)
			fmt.Printf("  total=%d success=%d already_activated=%d processing=%d invalid=%d failed=%d\n",
				summary.Total, summary.Success, summary.AlreadyActivated,
				summary.Processing, summary.Invalid, summary.Failed)
			return nil
		},
	}

	runCmd.Flags().StringP("input", "i", "", "Input file with ICCIDs. (Overrides config/env)")
	runCmd.Flags().StringP("output", "o", "", "Output file for the result report. (Overrides config/env)")
	runCmd.Flags().String("invalid-output", "", "Output file for rejected ICCIDs. (Overrides config/env)")
	runCmd.Flags().IntP("concurrency", "j", 0, "Number of concurrent activation attempts. (Overrides config/env)")
	runCmd.Flags().Int("retries", 0, "Total attempts per ICCID before giving up. (Overrides config/env)")
	runCmd.Flags().String("url", "", "Activation page URL. (Overrides config/env)")

	return runCmd
}

// sessionFactory adapts the browser manager to the interface the retry runner
// consumes.
type sessionFactory struct {
	manager *browser.Manager
}

func (f sessionFactory) OpenSession(ctx context.Context) (activation.Session, error) {
	return f.manager.OpenSession(ctx)
}

// performRun executes one complete activation run: load input, drive every
// identifier through the scheduler, write the reports. Per-identifier failures
// never fail the run; only input loading and browser launch are fatal.
func performRun(ctx context.Context, cfg *config.Config, logger *zap.Logger, runID string) (activation.Summary, error) {
	log := logger.With(zap.String("run_id", runID))
	log.Info("Starting activation run",
		zap.String("input", cfg.Input.Path),
		zap.String("url", cfg.Activation.URL),
		zap.Int("concurrency", cfg.Activation.Concurrency),
		zap.Int("max_retries", cfg.Activation.MaxRetries),
	)

	iccids, err := input.NewLoader(cfg.Input, log).Load()
	if err != nil {
		return activation.Summary{}, err
	}

	manager, err := browser.NewManager(ctx, log, cfg)
	if err != nil {
		return activation.Summary{}, fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := manager.Shutdown(shutdownCtx); err != nil {
			log.Warn("Error during browser shutdown", zap.Error(err))
		}
	}()

	attempter := activation.NewAttempter(cfg.Activation, cfg.Network, log)
	runner := activation.NewRunner(sessionFactory{manager: manager}, attempter, cfg.Activation.MaxRetries, log)
	scheduler := activation.NewScheduler(runner, cfg.Activation.Concurrency, cfg.Activation.RatePerMinute, log)

	outcomes := scheduler.Run(ctx, iccids)
	summary := activation.Summarize(outcomes)

	writer := reporting.NewWriter(cfg.Output, log)
	if err := writer.WriteResults(outcomes); err != nil {
		return summary, err
	}
	if err := writer.WriteInvalid(activation.InvalidICCIDs(outcomes)); err != nil {
		return summary, err
	}
	writer.LogSummary(summary)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}
