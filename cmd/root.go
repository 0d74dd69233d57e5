// Package cmd contains CLI command definitions
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethpandaops/branchbench/internal/config"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Logger is the shared logger instance for all commands
	Logger *logrus.Logger

	envFile string

	rootCmd = &cobra.Command{
		Use:   "branchbench",
		Short: "branchbench - branch performance comparison",
		Long: `branchbench checks out branches of a repository one after another, rebuilds
them inside a shared runtime environment and compares their performance test results.

Run without arguments to launch interactive mode, or use subcommands for direct operations.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if envFile == "" {
				return nil
			}

			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file '%s': %w", envFile, err)
			}

			InitLogger()

			return nil
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errInterrupted) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

// InitLogger (re)creates the shared logger from LOG_LEVEL.
func InitLogger() {
	Logger = logrus.New()

	logLevel := os.Getenv(config.EnvLogLevel)
	if logLevel == "" {
		logLevel = config.DefaultLogLevel
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		// Can't use Logger here since it might not be set up yet
		fmt.Printf("Invalid LOG_LEVEL '%s', defaulting to 'info'\n", logLevel)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	InitLogger()

	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Environment file to load (default .env)")
}
