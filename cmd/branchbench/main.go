// Package main is the entry point for the branchbench application
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethpandaops/branchbench/cmd"
	"github.com/joho/godotenv"
)

const (
	envFlag      = "--env"
	envFlagEqual = "--env="
	defaultEnv   = ".env"
)

var errEnvValueMissing = errors.New("--env flag requires a value")

func main() {
	envFile, menuMode, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !menuMode {
		// cobra handles --env itself
		cmd.Execute()
		return
	}

	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		os.Exit(1)
	}

	cmd.InitLogger()
	cmd.RunInteractive()
}

// parseArgs extracts the env file and reports whether the interactive menu
// should run, which is the case when no argument other than --env is given.
func parseArgs(args []string) (envFile string, menuMode bool, err error) {
	rest := 0

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == envFlag:
			if i+1 >= len(args) {
				return "", false, errEnvValueMissing
			}
			envFile = args[i+1]
			i++
		case strings.HasPrefix(arg, envFlagEqual):
			envFile = strings.TrimPrefix(arg, envFlagEqual)
		default:
			rest++
		}
	}

	return envFile, rest == 0, nil
}

// loadEnvFile loads the given env file. A missing default file is ignored.
func loadEnvFile(file string) error {
	if file == "" {
		file = defaultEnv
	}

	if err := godotenv.Load(file); err != nil {
		if file == defaultEnv && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load env file '%s': %w", file, err)
	}

	return nil
}
