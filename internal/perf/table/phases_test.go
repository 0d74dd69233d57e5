package table

import (
	"testing"
	"time"

	"github.com/ethpandaops/branchbench/internal/perf/metrics"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestPhasesFormatter_Format(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	log := logrus.New()
	formatter := NewPhasesFormatter(log, NewRenderer(log))

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, formatter.Format(nil))
	})

	t.Run("rows", func(t *testing.T) {
		out := formatter.Format([]metrics.PhaseMetric{
			{Phase: metrics.PhaseClone, Duration: 2 * time.Second, Success: true},
			{Phase: metrics.PhaseRound, Branch: "trunk", Suite: "post-editor", Round: 2, Duration: 40 * time.Second, Success: false},
		})

		assert.Contains(t, out, "Phases")
		assert.Contains(t, out, "clone")
		assert.Contains(t, out, "2.0s")
		assert.Contains(t, out, "post-editor")
		assert.Contains(t, out, "✗ FAIL")
	})
}

func TestSummaryFormatter_Format(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	log := logrus.New()
	out := NewSummaryFormatter(log, NewRenderer(log)).Format(metrics.SummaryMetric{
		Builds:        2,
		BuildDuration: 3 * time.Minute,
		Rounds:        12,
		RoundDuration: 6 * time.Minute,
	})

	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "3.0m")
}
