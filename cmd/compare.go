package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ethpandaops/branchbench/internal/config"
	"github.com/ethpandaops/branchbench/internal/git"
	"github.com/ethpandaops/branchbench/internal/infra"
	"github.com/ethpandaops/branchbench/internal/perf"
	"github.com/ethpandaops/branchbench/internal/perf/metrics"
	"github.com/ethpandaops/branchbench/internal/perf/report"
	"github.com/ethpandaops/branchbench/internal/perf/results"
	"github.com/ethpandaops/branchbench/internal/perf/table"
	"github.com/ethpandaops/branchbench/internal/session"
	"github.com/ethpandaops/branchbench/internal/shell"
	"github.com/ethpandaops/branchbench/internal/store"
	"github.com/ethpandaops/branchbench/internal/wpenv"
	"github.com/ethpandaops/branchbench/pkg/interactive"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CompareOptions are the inputs of a comparison run.
type CompareOptions struct {
	CI              bool
	TestsBranch     string
	PlatformVersion string
	Rounds          int
	SessionFile     string
	ArtifactsDir    string
	WorkDir         string
	ClickHouseURL   string
	Verbose         bool
}

var compareOpts CompareOptions

var compareCmd = &cobra.Command{
	Use:   "compare [branches...]",
	Short: "Benchmark branches and compare their performance",
	Long: `Clone the benchmark repository, start the runtime environment and run every
configured test suite against each branch in turn. Results are curated into a
comparison table per suite, printed, and written as <suite>-performance-results.json.

Without branches the session's default branch is measured.

Example:
  branchbench compare trunk try/faster-typing
  branchbench compare trunk add/feature --ci --wp-version 5.7.0 --rounds 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCompare(cmd.Context(), &compareOpts, args)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().BoolVar(&compareOpts.CI, "ci", false, "Skip the confirmation prompt")
	compareCmd.Flags().StringVar(&compareOpts.TestsBranch, "tests-branch", "", "Branch providing the test suites")
	compareCmd.Flags().StringVar(&compareOpts.PlatformVersion, "wp-version", "", "Platform version to run against (e.g. 5.7.0)")
	compareCmd.Flags().IntVar(&compareOpts.Rounds, "rounds", 0, "Rounds per suite (default from session definition)")
	compareCmd.Flags().StringVar(&compareOpts.SessionFile, "config", "", "Session definition file (default "+session.DefaultFile+" if present)")
	compareCmd.Flags().StringVar(&compareOpts.ArtifactsDir, "artifacts-dir", "", "Directory for result artifacts (default $"+config.EnvArtifactsDir+")")
	compareCmd.Flags().StringVar(&compareOpts.WorkDir, "work-dir", "", "Directory for checkouts (default $"+config.EnvWorkDir+")")
	compareCmd.Flags().StringVar(&compareOpts.ClickHouseURL, "clickhouse-url", "", "Publish results to ClickHouse (default $"+config.EnvClickHouseURL+")")
	compareCmd.Flags().BoolVar(&compareOpts.Verbose, "verbose", false, "Verbose output")
}

// RunCompare executes one comparison session.
func RunCompare(ctx context.Context, opts *CompareOptions, branches []string) error {
	log := newLogger(opts.Verbose)

	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyOverrides(appCfg, opts)

	sessionCfg, err := session.NewLoader(log).Load(opts.SessionFile)
	if err != nil {
		return &perf.ConfigError{Path: sessionPath(opts.SessionFile), Err: err}
	}

	if appCfg.RepoURL != "" {
		sessionCfg.RepositoryURL = appCfg.RepoURL
	}

	collector := metrics.NewCollector(log)
	if err := collector.Start(ctx); err != nil {
		return fmt.Errorf("starting metrics collector: %w", err)
	}
	defer func() {
		_ = collector.Stop()
	}()

	var publisher report.Publisher
	if appCfg.ClickHouseURL != "" {
		if err := store.Migrate(log, appCfg.ClickHouseURL); err != nil {
			return fmt.Errorf("migrating results store: %w", err)
		}

		ch, err := store.Connect(ctx, log, appCfg.ClickHouseURL)
		if err != nil {
			return fmt.Errorf("connecting to results store: %w", err)
		}
		defer func() {
			_ = ch.Close()
		}()

		publisher = ch
	}

	orchestrator, formatter := setupOrchestrator(log, appCfg, sessionCfg, opts, collector, publisher)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := newCleanupHandler(log, orchestrator, cancel)
	handler.start()

	formatter.PrintPhase(fmt.Sprintf("Comparing %s", describeBranches(branches, sessionCfg.DefaultBranch)))

	start := time.Now()

	_, err = orchestrator.Run(ctx, branches)

	interrupted := handler.finish()

	formatter.PrintPhases()
	formatter.PrintSummary()

	if interrupted != nil {
		formatter.PrintError("Comparison interrupted", err)
		return interrupted
	}

	if err != nil {
		if errors.Is(err, perf.ErrAborted) {
			formatter.PrintProgress("Comparison canceled.", 0)
			return nil
		}

		formatter.PrintError("Comparison failed", err)

		return err
	}

	formatter.PrintSuccess(fmt.Sprintf("Comparison complete in %s, results in %s",
		time.Since(start).Round(time.Second), appCfg.ArtifactsDir))

	return nil
}

func applyOverrides(appCfg *config.AppConfig, opts *CompareOptions) {
	if opts.ArtifactsDir != "" {
		appCfg.ArtifactsDir = opts.ArtifactsDir
	}

	if opts.WorkDir != "" {
		appCfg.WorkDir = opts.WorkDir
	}

	if opts.ClickHouseURL != "" {
		appCfg.ClickHouseURL = opts.ClickHouseURL
	}
}

// setupOrchestrator wires the comparison pipeline.
func setupOrchestrator(
	log logrus.FieldLogger,
	appCfg *config.AppConfig,
	sessionCfg *session.Config,
	opts *CompareOptions,
	collector metrics.Collector,
	publisher report.Publisher,
) (*perf.Orchestrator, report.Formatter) {
	files := results.NewJSONStore(log)
	runner := shell.NewRunner(log)

	renderer := table.NewRenderer(log)
	formatter := report.NewFormatter(
		os.Stdout,
		sessionCfg.Unit,
		collector,
		renderer,
		table.NewPhasesFormatter(log, renderer),
		table.NewSummaryFormatter(log, renderer),
	)

	orchestrator := perf.NewOrchestrator(&perf.OrchestratorConfig{
		Logger:  log,
		Session: sessionCfg,
		Options: perf.Options{
			CI:              opts.CI,
			TestsBranch:     opts.TestsBranch,
			PlatformVersion: opts.PlatformVersion,
			Rounds:          opts.Rounds,
			WorkDir:         appCfg.WorkDir,
		},
		Git:       git.NewClient(log, appCfg.GitDepth),
		Shell:     runner,
		Files:     files,
		Confirmer: interactive.SurveyConfirmer{},
		Runtime: infra.NewRuntimeManager(&infra.RuntimeConfig{
			Logger:       log,
			Runner:       runner,
			StartCommand: sessionCfg.Commands.RuntimeStart,
			StopCommand:  sessionCfg.Commands.RuntimeStop,
			Ports:        sessionCfg.Ports,
		}),
		Patcher: wpenv.NewPatcher(log, files, sessionCfg.RuntimeConfigFile, sessionCfg.PlatformURLTemplate),
		Reporter: report.NewReporter(&report.ReporterConfig{
			Logger:       log,
			Formatter:    formatter,
			Files:        files,
			ArtifactsDir: appCfg.ArtifactsDir,
			Publisher:    publisher,
		}),
		Metrics: collector,
	})

	return orchestrator, formatter
}

func sessionPath(path string) string {
	if path == "" {
		return session.DefaultFile
	}

	return path
}

func describeBranches(branches []string, defaultBranch string) string {
	switch len(branches) {
	case 0:
		return defaultBranch
	case 1:
		return branches[0]
	default:
		return fmt.Sprintf("%d branches", len(branches))
	}
}
