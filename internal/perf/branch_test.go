package perf

import (
	"context"
	"errors"
	"testing"

	"github.com/ethpandaops/branchbench/internal/perf/metrics"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBuildCommand = "npm install && npm run build"

func newTestBranchCycle(git SourceControl, shell ShellRunner, collector metrics.Collector) *BranchCycle {
	return NewBranchCycle(&BranchCycleConfig{
		Logger:       logrus.New(),
		Git:          git,
		Shell:        shell,
		Metrics:      collector,
		BuildCommand: testBuildCommand,
	})
}

func TestBranchCycle_Prepare(t *testing.T) {
	rec := &recorder{}
	collector := metrics.NewCollector(logrus.New())
	cycle := newTestBranchCycle(&fakeGit{rec: rec}, &fakeShell{rec: rec}, collector)

	env := Environment{Dir: "/work/env-1", TestsDir: "/work/tests-1"}
	require.NoError(t, cycle.Prepare(context.Background(), "add/feature", env))

	assert.Equal(t, []string{
		"discard env",
		"checkout env add/feature",
		"shell env: " + testBuildCommand,
	}, rec.list())

	phases := collector.GetPhaseMetrics()
	require.Len(t, phases, 1)
	assert.Equal(t, metrics.PhaseBuild, phases[0].Phase)
	assert.Equal(t, "add/feature", phases[0].Branch)
	assert.True(t, phases[0].Success)
}

func TestBranchCycle_PrepareFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name     string
		git      func(*recorder) *fakeGit
		shell    func(*recorder) *fakeShell
		step     string
		expected []string
	}{
		{
			name:     "discard",
			git:      func(r *recorder) *fakeGit { return &fakeGit{rec: r, discardErr: boom} },
			shell:    func(r *recorder) *fakeShell { return &fakeShell{rec: r} },
			step:     StepDiscard,
			expected: []string{"discard env"},
		},
		{
			name: "checkout",
			git: func(r *recorder) *fakeGit {
				return &fakeGit{rec: r, checkoutErrs: map[string]error{"missing": boom}}
			},
			shell:    func(r *recorder) *fakeShell { return &fakeShell{rec: r} },
			step:     StepCheckout,
			expected: []string{"discard env", "checkout env missing"},
		},
		{
			name: "rebuild",
			git:  func(r *recorder) *fakeGit { return &fakeGit{rec: r} },
			shell: func(r *recorder) *fakeShell {
				return &fakeShell{rec: r, errs: map[string]error{testBuildCommand: boom}}
			},
			step:     StepRebuild,
			expected: []string{"discard env", "checkout env missing", "shell env: " + testBuildCommand},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			collector := metrics.NewCollector(logrus.New())
			cycle := newTestBranchCycle(tt.git(rec), tt.shell(rec), collector)

			err := cycle.Prepare(context.Background(), "missing", Environment{Dir: "/work/env-1"})
			require.ErrorIs(t, err, boom)

			var transition *BranchTransitionError
			require.ErrorAs(t, err, &transition)
			assert.Equal(t, "missing", transition.Branch)
			assert.Equal(t, tt.step, transition.Step)
			assert.Equal(t, tt.expected, rec.list())

			phases := collector.GetPhaseMetrics()
			require.Len(t, phases, 1)
			assert.False(t, phases[0].Success)
		})
	}
}
