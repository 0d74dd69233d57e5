// Package metrics provides timing collection for benchmark session phases.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Phase identifies a step of a benchmark session.
type Phase string

const (
	// PhaseClone is the benchmark repository clone.
	PhaseClone Phase = "clone"
	// PhaseEnvironment is the creation of the isolated environment copy.
	PhaseEnvironment Phase = "environment"
	// PhaseInstall is the test-suite dependency install.
	PhaseInstall Phase = "install"
	// PhaseRuntimeStart is the runtime environment start.
	PhaseRuntimeStart Phase = "runtime_start"
	// PhaseBuild is a per-branch checkout and rebuild.
	PhaseBuild Phase = "build"
	// PhaseRound is one execution of a test suite.
	PhaseRound Phase = "round"
	// PhaseRuntimeStop is the runtime environment stop.
	PhaseRuntimeStop Phase = "runtime_stop"
)

// PhaseMetric captures the duration of a single phase execution.
type PhaseMetric struct {
	Phase     Phase
	Branch    string // empty for session-wide phases
	Suite     string // only set for rounds
	Round     int    // 1-based, only set for rounds
	Duration  time.Duration
	Success   bool
	Timestamp time.Time
}

// SummaryMetric provides aggregate statistics across a session.
type SummaryMetric struct {
	TotalDuration time.Duration
	Builds        int
	BuildDuration time.Duration
	Rounds        int
	RoundDuration time.Duration
	Failures      int
}

// Collector interface for metrics collection
type Collector interface {
	Start(ctx context.Context) error
	Stop() error
	RecordPhase(metric *PhaseMetric)
	GetPhaseMetrics() []PhaseMetric
	GetSummary() SummaryMetric
}

// collector implements Collector interface
type collector struct {
	log          logrus.FieldLogger
	mu           sync.RWMutex
	phaseMetrics []PhaseMetric
	startTime    time.Time
}

// NewCollector creates a new metrics collector
func NewCollector(log logrus.FieldLogger) Collector {
	return &collector{
		log:          log.WithField("component", "metrics_collector"),
		phaseMetrics: make([]PhaseMetric, 0, 32),
	}
}

func (c *collector) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()

	c.log.Debug("metrics collector started")

	return nil
}

func (c *collector) Stop() error {
	c.log.Debug("metrics collector stopped")

	return nil
}

func (c *collector) RecordPhase(metric *PhaseMetric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if metric.Timestamp.IsZero() {
		metric.Timestamp = time.Now()
	}

	c.phaseMetrics = append(c.phaseMetrics, *metric)
}

func (c *collector) GetPhaseMetrics() []PhaseMetric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]PhaseMetric, len(c.phaseMetrics))
	copy(result, c.phaseMetrics)

	return result
}

func (c *collector) GetSummary() SummaryMetric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var summary SummaryMetric
	if !c.startTime.IsZero() {
		summary.TotalDuration = time.Since(c.startTime)
	}

	for _, pm := range c.phaseMetrics {
		if !pm.Success {
			summary.Failures++
		}

		switch pm.Phase {
		case PhaseBuild:
			summary.Builds++
			summary.BuildDuration += pm.Duration
		case PhaseRound:
			summary.Rounds++
			summary.RoundDuration += pm.Duration
		case PhaseClone, PhaseEnvironment, PhaseInstall, PhaseRuntimeStart, PhaseRuntimeStop:
		}
	}

	return summary
}

// Compile-time interface compliance check
var _ Collector = (*collector)(nil)
