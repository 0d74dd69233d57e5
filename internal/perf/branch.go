package perf

import (
	"context"
	"time"

	"github.com/ethpandaops/branchbench/internal/perf/metrics"
	"github.com/sirupsen/logrus"
)

// Branch transition steps, in execution order.
const (
	StepDiscard  = "discard local changes"
	StepCheckout = "checkout"
	StepRebuild  = "rebuild"
)

// BranchCycleConfig contains configuration for a BranchCycle.
type BranchCycleConfig struct {
	Logger  logrus.FieldLogger
	Git     SourceControl
	Shell   ShellRunner
	Metrics metrics.Collector
	// BuildCommand performs the full clean rebuild in the environment tree.
	BuildCommand string
}

// BranchCycle moves the environment tree to a branch and rebuilds it.
type BranchCycle struct {
	log          logrus.FieldLogger
	git          SourceControl
	shell        ShellRunner
	metrics      metrics.Collector
	buildCommand string
}

// NewBranchCycle creates a new branch cycle.
func NewBranchCycle(cfg *BranchCycleConfig) *BranchCycle {
	return &BranchCycle{
		log:          cfg.Logger.WithField("component", "branch_cycle"),
		git:          cfg.Git,
		shell:        cfg.Shell,
		metrics:      cfg.Metrics,
		buildCommand: cfg.BuildCommand,
	}
}

// Prepare discards local changes in env.Dir, checks out branch from the
// remote and runs a full clean rebuild. Each step only runs if the previous
// one succeeded; nothing is rolled back on failure.
func (c *BranchCycle) Prepare(ctx context.Context, branch string, env Environment) error {
	log := c.log.WithFields(logrus.Fields{
		"branch": branch,
		"dir":    env.Dir,
	})
	start := time.Now()

	err := c.prepare(ctx, log, branch, env)

	c.metrics.RecordPhase(&metrics.PhaseMetric{
		Phase:    metrics.PhaseBuild,
		Branch:   branch,
		Duration: time.Since(start),
		Success:  err == nil,
	})

	if err != nil {
		return err
	}

	log.WithField("duration", time.Since(start)).Info("branch ready")

	return nil
}

func (c *BranchCycle) prepare(ctx context.Context, log logrus.FieldLogger, branch string, env Environment) error {
	// A previous install may leave lockfile changes that block the checkout.
	log.Debug("discarding local changes")
	if err := c.git.DiscardLocalChanges(ctx, env.Dir); err != nil {
		return &BranchTransitionError{Branch: branch, Step: StepDiscard, Err: err}
	}

	log.Info("fetching branch")
	if err := c.git.CheckoutRemoteBranch(ctx, env.Dir, branch); err != nil {
		return &BranchTransitionError{Branch: branch, Step: StepCheckout, Err: err}
	}

	log.Info("building branch")
	if err := c.shell.Run(ctx, c.buildCommand, env.Dir); err != nil {
		return &BranchTransitionError{Branch: branch, Step: StepRebuild, Err: err}
	}

	return nil
}
