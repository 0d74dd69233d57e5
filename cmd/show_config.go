package cmd

import (
	"fmt"
	"os"

	"github.com/ethpandaops/branchbench/internal/config"
	"github.com/ethpandaops/branchbench/internal/session"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var showConfigSession string

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Display current configuration",
	Long: `Shows the configuration loaded from environment variables and .env file, followed
by the effective session definition.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := ShowConfig(showConfigSession); err != nil {
			return fmt.Errorf("failed to show config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)

	showConfigCmd.Flags().StringVar(&showConfigSession, "config", "", "Session definition file (default "+session.DefaultFile+" if present)")
}

// ShowConfig prints the environment configuration and the session definition.
func ShowConfig(sessionFile string) error {
	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sessionCfg, err := session.NewLoader(Logger).Load(sessionFile)
	if err != nil {
		return fmt.Errorf("loading session %s: %w", sessionPath(sessionFile), err)
	}

	out, err := yaml.Marshal(sessionCfg)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	fmt.Fprintln(os.Stdout, appCfg.String())
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, "Session:")
	fmt.Fprintln(os.Stdout, "========")
	fmt.Fprint(os.Stdout, string(out))

	return nil
}
