// Package main provides the gfps command line: match predictions, margin
// removal, value-bet sizing and backtests.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gfps/internal/config"
	"github.com/yourusername/gfps/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type app struct {
	configFile string
	logLevel   string
	cfg        *config.Config
	log        *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "gfps",
		Short:         "Football match probabilities and betting value",
		Long:          `Blends bookmaker prices, goal models and an optional classifier into calibrated 1X2 probabilities, and sizes value bets against the market.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(
		newPredictCmd(a),
		newDevigCmd(a),
		newValueCmd(a),
		newMarketCmd(a),
		newBacktestCmd(a),
		newImportResultsCmd(a),
		newLiveCmd(a),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.LoadWithDefaults(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if a.logLevel != "" {
		cfg.App.LogLevel = a.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.NewLogger(cfg.App.LogLevel)
	// stdout carries command output.
	a.log.SetOutput(os.Stderr)
	return nil
}

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
