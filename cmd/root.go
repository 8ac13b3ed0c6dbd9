package cmd

import (
	"fmt"
	"os"

	"subdaap-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "subdaap-sync",
	Short: "Subsonic to DAAP library synchronizer",
	Long: `subdaap-sync mirrors remote Subsonic catalogs into a local relational store
and keeps an in-memory library view current for DAAP-style consumers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// configPath is the directory holding .env and config.yaml.
var configPath string

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing .env and config.yaml")
}
