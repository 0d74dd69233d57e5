package perf

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ethpandaops/branchbench/internal/perf/metrics"
	"github.com/ethpandaops/branchbench/internal/perf/results"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
)

// SuitePlaceholder is replaced by the suite name in command and path templates.
const SuitePlaceholder = "{suite}"

// resultPrecision is the number of decimals kept in a suite result.
const resultPrecision = 2

// SuiteRunnerConfig contains configuration for a SuiteRunner.
type SuiteRunnerConfig struct {
	Logger  logrus.FieldLogger
	Shell   ShellRunner
	Files   FileStore
	Metrics metrics.Collector
	// Command runs one suite; executed in the tests checkout.
	Command string
	// ResultsPath locates the raw results file, relative to the tests checkout.
	ResultsPath string
}

// SuiteRunner executes a test suite repeatedly and reduces the curated
// results of every round to a median-based suite result.
type SuiteRunner struct {
	log         logrus.FieldLogger
	shell       ShellRunner
	files       FileStore
	metrics     metrics.Collector
	command     string
	resultsPath string
}

// NewSuiteRunner creates a new suite runner.
func NewSuiteRunner(cfg *SuiteRunnerConfig) *SuiteRunner {
	return &SuiteRunner{
		log:         cfg.Logger.WithField("component", "suite_runner"),
		shell:       cfg.Shell,
		files:       cfg.Files,
		metrics:     cfg.Metrics,
		command:     cfg.Command,
		resultsPath: cfg.ResultsPath,
	}
}

// Run executes suite exactly rounds times against env and returns the
// per-metric median of the curated rounds, rounded to two decimals. Any
// failing round fails the whole run.
func (r *SuiteRunner) Run(ctx context.Context, suite string, env Environment, rounds int) (results.Curated, error) {
	if rounds < 1 {
		return nil, &InvalidInputError{Field: "rounds", Reason: fmt.Sprintf("must be at least 1, got %d", rounds)}
	}

	log := r.log.WithFields(logrus.Fields{
		"suite":  suite,
		"branch": env.Branch,
		"rounds": rounds,
	})
	log.Info("running test suite")

	curated := make([]results.Curated, 0, rounds)

	for round := 1; round <= rounds; round++ {
		start := time.Now()
		result, err := r.runRound(ctx, suite, env)
		r.metrics.RecordPhase(&metrics.PhaseMetric{
			Phase:    metrics.PhaseRound,
			Branch:   env.Branch,
			Suite:    suite,
			Round:    round,
			Duration: time.Since(start),
			Success:  err == nil,
		})

		if err != nil {
			return nil, &SuiteExecutionError{Suite: suite, Round: round, Err: err}
		}

		log.WithFields(logrus.Fields{
			"round":    round,
			"duration": time.Since(start),
		}).Debug("round completed")

		curated = append(curated, result)
	}

	median, err := ReduceRuns(curated)
	if err != nil {
		return nil, &SuiteExecutionError{Suite: suite, Err: err}
	}

	return median, nil
}

func (r *SuiteRunner) runRound(ctx context.Context, suite string, env Environment) (results.Curated, error) {
	command := strings.ReplaceAll(r.command, SuitePlaceholder, suite)
	if err := r.shell.Run(ctx, command, env.TestsDir); err != nil {
		return nil, fmt.Errorf("running test command: %w", err)
	}

	path := filepath.Join(env.TestsDir, strings.ReplaceAll(r.resultsPath, SuitePlaceholder, suite))

	var raw results.RawSample
	if err := r.files.ReadJSON(path, &raw); err != nil {
		return nil, fmt.Errorf("reading raw results: %w", err)
	}

	curated, err := Curate(raw)
	if err != nil {
		return nil, fmt.Errorf("curating %s: %w", path, err)
	}

	return curated, nil
}

// ReduceRuns computes, for every metric present in any run, the median of
// its values across runs and rounds it to two decimals.
func ReduceRuns(runs []results.Curated) (results.Curated, error) {
	if len(runs) == 0 {
		return nil, &InvalidInputError{Field: "runs", Reason: "nothing to reduce"}
	}

	seen := make(map[string]bool)
	keys := make([]string, 0)

	for _, run := range runs {
		for key := range run {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)

	out := make(results.Curated, len(keys))

	for _, key := range keys {
		values := make([]float64, 0, len(runs))
		for _, run := range runs {
			if v, ok := run[key]; ok {
				values = append(values, v)
			}
		}

		median, err := stats.Median(values)
		if err != nil {
			return nil, fmt.Errorf("median of %s: %w", key, err)
		}

		rounded, err := stats.Round(median, resultPrecision)
		if err != nil {
			return nil, fmt.Errorf("rounding %s: %w", key, err)
		}

		out[key] = rounded
	}

	return out, nil
}
