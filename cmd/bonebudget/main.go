package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lexcodex/bonebudget/cmd/internal/cliutils"
	"github.com/lexcodex/bonebudget/cmd/internal/workspacecfg"
	"github.com/lexcodex/bonebudget/framework"
	"github.com/lexcodex/bonebudget/persistence"
)

var (
	flagWorkspace string
	flagPlatform  string
	flagDebug     bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bonebudget",
		Short:         "Estimate the runtime cost of dynamic bone rigs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagWorkspace, "workspace", envOrDefault("BONEBUDGET_WORKSPACE", "."), "Workspace root holding bonebudget.yaml")
	root.PersistentFlags().StringVar(&flagPlatform, "platform", os.Getenv("BONEBUDGET_PLATFORM"), "Threshold platform (overrides the workspace config)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newEstimateCmd(),
		newBatchCmd(),
		newInspectCmd(),
		newThresholdsCmd(),
		newReportCmd(),
		newServeCmd(),
		newConfigCmd(),
	)
	return root
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// runtimeEnv carries everything a command needs after the workspace config
// has been applied.
type runtimeEnv struct {
	cfg        *workspacecfg.WorkspaceConfig
	logger     *log.Logger
	thresholds *framework.ThresholdSet
	estimator  *framework.Estimator
	closers    []func() error
}

func loadEnv(cmd *cobra.Command) (*runtimeEnv, error) {
	cfg, err := workspacecfg.Load(flagWorkspace)
	if err != nil {
		return nil, err
	}
	if flagPlatform != "" {
		cfg.Platform = flagPlatform
	}
	logger := cliutils.NewLogger(cmd.ErrOrStderr(), flagDebug || cfg.Debug)
	thresholds, err := cliutils.LoadThresholds(cfg.Resolve(cfg.ThresholdsFile))
	if err != nil {
		return nil, err
	}
	if _, err := thresholds.Get(cfg.Platform); err != nil {
		return nil, err
	}
	telemetry, closeFn, err := cliutils.NewTelemetry(logger, cfg.Resolve(cfg.TelemetryFile))
	if err != nil {
		return nil, err
	}
	return &runtimeEnv{
		cfg:        cfg,
		logger:     logger,
		thresholds: thresholds,
		estimator:  &framework.Estimator{Telemetry: telemetry},
		closers:    []func() error{closeFn},
	}, nil
}

func (e *runtimeEnv) table() framework.ThresholdTable {
	table, _ := e.thresholds.Get(e.cfg.Platform)
	return table
}

// store opens the configured report store; the caller need not close it.
func (e *runtimeEnv) store() (persistence.ReportStore, error) {
	store, err := cliutils.OpenStore(e.cfg)
	if err != nil {
		return nil, err
	}
	if store != nil {
		e.closers = append(e.closers, store.Close)
	}
	return store, nil
}

func (e *runtimeEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Warn("close", "err", err)
		}
	}
}
