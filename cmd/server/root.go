package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/sonic-seats/internal/config"
	"github.com/iliyamo/sonic-seats/internal/logging"
	"github.com/iliyamo/sonic-seats/internal/model"
	"github.com/iliyamo/sonic-seats/internal/store"
)

var (
	// Global flags
	verbose    bool
	configFile string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sonicseats",
	Short: "Sonic Seats concert ticket storefront",
	Long: `sonicseats serves the Sonic Seats storefront: concert browsing, the FAQ,
the contact form and seat purchases, backed by JSON documents in a data directory.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := os.Setenv("CONFIG_FILE", configFile); err != nil {
				return err
			}
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Env, cfg.LogLevel, verbose || cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")

	rootCmd.AddCommand(serveCmd, checkCmd, consumeCmd)
}

func openStore() *store.Store {
	seats := cfg.SeatsPerSection
	if seats <= 0 {
		seats = model.DefaultSeatsPerSection
	}
	return store.New(cfg.DataDir, store.DefaultFiles(), seats)
}
