package perf

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ethpandaops/branchbench/internal/perf/metrics"
	"github.com/ethpandaops/branchbench/internal/perf/results"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testResultsPath = "results/{suite}.test.results.json"

func newTestSuiteRunner(shell ShellRunner, files FileStore, collector metrics.Collector) *SuiteRunner {
	return NewSuiteRunner(&SuiteRunnerConfig{
		Logger:      logrus.New(),
		Shell:       shell,
		Files:       files,
		Metrics:     collector,
		Command:     "npm run test-performance -- {suite}.test.js",
		ResultsPath: testResultsPath,
	})
}

func TestSuiteRunner_MedianAcrossRounds(t *testing.T) {
	tests := []struct {
		name     string
		loads    []float64
		expected float64
	}{
		{name: "odd count takes middle", loads: []float64{5, 1, 3}, expected: 3},
		{name: "even count averages middles", loads: []float64{4, 6}, expected: 5},
		{name: "rounds to two decimals", loads: []float64{12.3456}, expected: 12.35},
		{name: "half rounds up", loads: []float64{0.125}, expected: 0.13},
		{name: "half rounds up after median", loads: []float64{0.375, 0.375, 9}, expected: 0.38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := make([]results.RawSample, 0, len(tt.loads))
			for _, load := range tt.loads {
				queue = append(queue, rawSample(load))
			}

			files := &fakeFiles{queued: map[string][]results.RawSample{
				"post-editor.test.results.json": queue,
			}}
			runner := newTestSuiteRunner(&fakeShell{rec: &recorder{}}, files, metrics.NewCollector(logrus.New()))

			result, err := runner.Run(context.Background(), "post-editor", Environment{TestsDir: "/work/tests-1"}, len(tt.loads))
			require.NoError(t, err)

			assert.InDelta(t, tt.expected, result[results.MetricLoad], 1e-9)
			assert.InDelta(t, tt.expected, result["minFocus"], 1e-9)
		})
	}
}

func TestSuiteRunner_RunsCommandPerRound(t *testing.T) {
	rec := &recorder{}
	files := &fakeFiles{fallback: rawSample(1, 2, 3)}
	collector := metrics.NewCollector(logrus.New())
	runner := newTestSuiteRunner(&fakeShell{rec: rec}, files, collector)

	env := Environment{TestsDir: "/work/tests-1", Branch: "trunk"}
	_, err := runner.Run(context.Background(), "site-editor", env, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"shell tests: npm run test-performance -- site-editor.test.js",
		"shell tests: npm run test-performance -- site-editor.test.js",
		"shell tests: npm run test-performance -- site-editor.test.js",
	}, rec.list())

	expectedPath := filepath.Join("/work/tests-1", "results", "site-editor.test.results.json")
	assert.Equal(t, []string{expectedPath, expectedPath, expectedPath}, files.reads)

	phases := collector.GetPhaseMetrics()
	require.Len(t, phases, 3)
	for i, phase := range phases {
		assert.Equal(t, metrics.PhaseRound, phase.Phase)
		assert.Equal(t, "trunk", phase.Branch)
		assert.Equal(t, "site-editor", phase.Suite)
		assert.Equal(t, i+1, phase.Round)
		assert.True(t, phase.Success)
	}
}

func TestSuiteRunner_FailsFast(t *testing.T) {
	boom := errors.New("exit status 1")
	rec := &recorder{}
	files := &fakeFiles{
		queued: map[string][]results.RawSample{
			"post-editor.test.results.json": {rawSample(1), {}},
		},
		fallback: rawSample(1),
	}
	runner := newTestSuiteRunner(&fakeShell{rec: rec}, files, metrics.NewCollector(logrus.New()))

	_, err := runner.Run(context.Background(), "post-editor", Environment{TestsDir: "/work/tests-1"}, 3)
	require.Error(t, err)

	var suiteErr *SuiteExecutionError
	require.ErrorAs(t, err, &suiteErr)
	assert.Equal(t, "post-editor", suiteErr.Suite)
	assert.Equal(t, 2, suiteErr.Round)

	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)

	// The third round never runs.
	assert.Len(t, rec.list(), 2)

	t.Run("command failure", func(t *testing.T) {
		shell := &fakeShell{rec: &recorder{}, errs: map[string]error{"npm run test-performance -- post-editor": boom}}
		runner := newTestSuiteRunner(shell, &fakeFiles{fallback: rawSample(1)}, metrics.NewCollector(logrus.New()))

		_, err := runner.Run(context.Background(), "post-editor", Environment{TestsDir: "/work/tests-1"}, 3)
		require.ErrorIs(t, err, boom)
		require.ErrorAs(t, err, &suiteErr)
		assert.Equal(t, 1, suiteErr.Round)
	})

	t.Run("unreadable results", func(t *testing.T) {
		files := &fakeFiles{readErr: errors.New("unexpected end of JSON input")}
		runner := newTestSuiteRunner(&fakeShell{rec: &recorder{}}, files, metrics.NewCollector(logrus.New()))

		_, err := runner.Run(context.Background(), "post-editor", Environment{TestsDir: "/work/tests-1"}, 3)
		require.ErrorAs(t, err, &suiteErr)
		assert.Equal(t, 1, suiteErr.Round)
	})
}

func TestSuiteRunner_InvalidRounds(t *testing.T) {
	rec := &recorder{}
	runner := newTestSuiteRunner(&fakeShell{rec: rec}, &fakeFiles{}, metrics.NewCollector(logrus.New()))

	_, err := runner.Run(context.Background(), "post-editor", Environment{}, 0)

	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "rounds", invalid.Field)
	assert.Empty(t, rec.list())
}

func TestReduceRuns(t *testing.T) {
	reduced, err := ReduceRuns([]results.Curated{
		{"load": 1, "extra": 7},
		{"load": 2},
		{"load": 9, "extra": 8},
	})
	require.NoError(t, err)

	assert.Equal(t, results.Curated{"load": 2, "extra": 7.5}, reduced)

	_, err = ReduceRuns(nil)
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
}
