package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Summary(t *testing.T) {
	c := NewCollector(logrus.New())
	require.NoError(t, c.Start(context.Background()))

	c.RecordPhase(&PhaseMetric{Phase: PhaseClone, Duration: time.Second, Success: true})
	c.RecordPhase(&PhaseMetric{Phase: PhaseBuild, Branch: "trunk", Duration: 2 * time.Second, Success: true})
	c.RecordPhase(&PhaseMetric{Phase: PhaseRound, Branch: "trunk", Suite: "post-editor", Round: 1, Duration: 3 * time.Second, Success: true})
	c.RecordPhase(&PhaseMetric{Phase: PhaseRound, Branch: "trunk", Suite: "post-editor", Round: 2, Duration: 5 * time.Second, Success: false})

	summary := c.GetSummary()
	assert.Equal(t, 1, summary.Builds)
	assert.Equal(t, 2*time.Second, summary.BuildDuration)
	assert.Equal(t, 2, summary.Rounds)
	assert.Equal(t, 8*time.Second, summary.RoundDuration)
	assert.Equal(t, 1, summary.Failures)

	require.NoError(t, c.Stop())
}

func TestCollector_GetPhaseMetricsReturnsCopy(t *testing.T) {
	c := NewCollector(logrus.New())
	c.RecordPhase(&PhaseMetric{Phase: PhaseInstall, Success: true})

	got := c.GetPhaseMetrics()
	require.Len(t, got, 1)
	assert.False(t, got[0].Timestamp.IsZero())

	got[0].Phase = PhaseBuild
	assert.Equal(t, PhaseInstall, c.GetPhaseMetrics()[0].Phase)
}
