package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethpandaops/branchbench/pkg/interactive"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive TUI mode",
	Long:  `Launches the interactive Terminal User Interface for branchbench.`,
	Run: func(_ *cobra.Command, _ []string) {
		RunInteractive()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// RunInteractive shows the main menu until the user exits.
func RunInteractive() {
	fmt.Println("branchbench - Interactive Mode")
	fmt.Println("==============================")
	fmt.Println()

	for {
		options := []interactive.MenuOption{
			{
				Name:        "📊 Compare Branches",
				Description: "Benchmark one or more branches against each other",
				Action:      compareInteractive,
			},
			{
				Name:        "📋 Show Config",
				Description: "Display current configuration and session definition",
				Action: func() error {
					if err := ShowConfig(""); err != nil {
						fmt.Printf("\n❌ Error: %v\n", err)
					}
					interactive.PauseForEnter()
					return nil
				},
			},
		}

		if err := interactive.ShowMainMenu(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}
			log.Fatal(err)
		}

		fmt.Println()
	}
}

func compareInteractive() error {
	branches := strings.Fields(interactive.Input("Branches to compare (space separated, empty for default):", ""))
	testsBranch := interactive.Input("Tests branch (empty to keep the default branch):", "")
	version := interactive.Input("Platform version (empty to keep the environment default):", "")

	opts := &CompareOptions{
		TestsBranch:     testsBranch,
		PlatformVersion: version,
	}

	if err := RunCompare(context.Background(), opts, branches); err != nil {
		if errors.Is(err, errInterrupted) {
			os.Exit(130)
		}
		fmt.Printf("\n❌ Error: %v\n", err)
	}

	interactive.PauseForEnter()

	return nil
}
