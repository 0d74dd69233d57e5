package perf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethpandaops/branchbench/internal/perf/metrics"
	"github.com/ethpandaops/branchbench/internal/perf/results"
	"github.com/ethpandaops/branchbench/internal/session"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/sirupsen/logrus"
)

// ConfirmMessage is the go-ahead question asked before any work starts.
const ConfirmMessage = "Ready to go?"

// State is the lifecycle position of an Orchestrator.
type State string

const (
	StateIdle               State = "idle"
	StateConfirmed          State = "confirmed"
	StateEnvironmentReady   State = "environment_ready"
	StateBranchPreparing    State = "branch_preparing"
	StateSuitesRunning      State = "suites_running"
	StateEnvironmentStopped State = "environment_stopped"
	StateReported           State = "reported"
	StateDone               State = "done"
	StateFailed             State = "failed"
)

// Options are the per-invocation choices of a comparison.
type Options struct {
	// CI skips the confirmation prompt.
	CI bool
	// TestsBranch, when set, is checked out in the tests checkout.
	TestsBranch string
	// PlatformVersion, when set, pins the runtime platform version.
	PlatformVersion string
	// Rounds overrides the session rounds when positive.
	Rounds int
	// WorkDir holds the tests and environment checkouts.
	WorkDir string
}

// ConfigPatcher pins the platform version in an environment's runtime config.
type ConfigPatcher interface {
	ConfigPath(envDir string) string
	Patch(envDir, version string) (string, error)
}

// Reporter renders and persists a finished comparison.
type Reporter interface {
	Report(ctx context.Context, run *results.Run) error
}

// OrchestratorConfig contains configuration for an Orchestrator.
type OrchestratorConfig struct {
	Logger    logrus.FieldLogger
	Session   *session.Config
	Options   Options
	Git       SourceControl
	Shell     ShellRunner
	Files     FileStore
	Confirmer Confirmer
	Runtime   Runtime
	Patcher   ConfigPatcher
	Reporter  Reporter
	Metrics   metrics.Collector
}

// Orchestrator drives a complete comparison session: environment setup, the
// branch loop, runtime shutdown and reporting. An instance runs once.
type Orchestrator struct {
	log       logrus.FieldLogger
	session   *session.Config
	opts      Options
	git       SourceControl
	shell     ShellRunner
	confirmer Confirmer
	runtime   Runtime
	patcher   ConfigPatcher
	reporter  Reporter
	metrics   metrics.Collector
	branches  *BranchCycle
	suites    *SuiteRunner
	sessionID uuid.UUID

	mu             sync.Mutex
	state          State
	used           bool
	runtimeRunning bool
	env            Environment
}

// NewOrchestrator creates a new comparison orchestrator.
func NewOrchestrator(cfg *OrchestratorConfig) *Orchestrator {
	log := cfg.Logger.WithField("component", "orchestrator")

	return &Orchestrator{
		log:       log,
		session:   cfg.Session,
		opts:      cfg.Options,
		git:       cfg.Git,
		shell:     cfg.Shell,
		confirmer: cfg.Confirmer,
		runtime:   cfg.Runtime,
		patcher:   cfg.Patcher,
		reporter:  cfg.Reporter,
		metrics:   cfg.Metrics,
		branches: NewBranchCycle(&BranchCycleConfig{
			Logger:       cfg.Logger,
			Git:          cfg.Git,
			Shell:        cfg.Shell,
			Metrics:      cfg.Metrics,
			BuildCommand: cfg.Session.Commands.Build,
		}),
		suites: NewSuiteRunner(&SuiteRunnerConfig{
			Logger:      cfg.Logger,
			Shell:       cfg.Shell,
			Files:       cfg.Files,
			Metrics:     cfg.Metrics,
			Command:     cfg.Session.Commands.RunSuite,
			ResultsPath: cfg.Session.ResultsPath,
		}),
		sessionID: uuid.New(),
		state:     StateIdle,
	}
}

// SessionID returns the identifier of this comparison session.
func (o *Orchestrator) SessionID() uuid.UUID {
	return o.sessionID
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

// Rounds returns the number of rounds every suite runs.
func (o *Orchestrator) Rounds() int {
	if o.opts.Rounds > 0 {
		return o.opts.Rounds
	}

	return o.session.Rounds
}

// Run executes the comparison for branches and returns the filled table.
// On failure the partially filled table is returned with the error; it is
// never reported.
func (o *Orchestrator) Run(ctx context.Context, branches []string) (*results.Table, error) {
	o.mu.Lock()
	if o.used {
		o.mu.Unlock()
		return nil, ErrSessionUsed
	}
	o.used = true
	o.mu.Unlock()

	table := results.NewTable()

	if err := o.run(ctx, branches, table); err != nil {
		o.setState(StateFailed)
		return table, err
	}

	o.setState(StateDone)

	return table, nil
}

func (o *Orchestrator) run(ctx context.Context, input []string, table *results.Table) error {
	startedAt := time.Now()

	branches, err := o.normaliseBranches(input)
	if err != nil {
		return err
	}

	rounds := o.Rounds()
	if rounds < 1 {
		return &InvalidInputError{Field: "rounds", Reason: fmt.Sprintf("must be at least 1, got %d", rounds)}
	}

	if !o.opts.CI && !o.confirmer.Confirm(ConfirmMessage) {
		return ErrAborted
	}

	o.setState(StateConfirmed)

	env, err := o.setupEnvironment(ctx)
	if err != nil {
		return err
	}

	o.setState(StateEnvironmentReady)

	for _, branch := range branches {
		o.setState(StateBranchPreparing)

		if err := o.branches.Prepare(ctx, branch, env); err != nil {
			return err
		}

		env.Branch = branch
		o.setEnvironment(env)
		o.setState(StateSuitesRunning)

		for _, suite := range o.session.Suites {
			result, err := o.suites.Run(ctx, suite, env, rounds)
			if err != nil {
				return err
			}

			if err := table.Insert(suite, branch, result); err != nil {
				return err
			}
		}
	}

	if err := o.stopRuntime(ctx, env.Dir); err != nil {
		return &EnvironmentSetupError{Step: "runtime stop", Err: err}
	}

	o.setState(StateEnvironmentStopped)

	run := &results.Run{
		SessionID:       o.sessionID,
		StartedAt:       startedAt,
		Rounds:          rounds,
		PlatformVersion: o.opts.PlatformVersion,
		Branches:        branches,
		Table:           table,
	}

	if err := o.reporter.Report(ctx, run); err != nil {
		return fmt.Errorf("reporting results: %w", err)
	}

	o.setState(StateReported)

	return nil
}

func (o *Orchestrator) normaliseBranches(input []string) ([]string, error) {
	if len(input) == 0 {
		return []string{o.session.DefaultBranch}, nil
	}

	seen := make(map[string]bool, len(input))
	branches := make([]string, 0, len(input))

	for _, branch := range input {
		if branch == "" {
			return nil, &InvalidInputError{Field: "branches", Reason: "branch name is empty"}
		}

		if seen[branch] {
			return nil, &InvalidInputError{Field: "branches", Reason: fmt.Sprintf("branch %s listed more than once", branch)}
		}

		seen[branch] = true
		branches = append(branches, branch)
	}

	return branches, nil
}

// setupEnvironment clones the tests checkout, derives the environment copy,
// installs test dependencies and starts the runtime.
func (o *Orchestrator) setupEnvironment(ctx context.Context) (Environment, error) {
	id := o.sessionID.String()[:8]
	env := Environment{
		TestsDir: filepath.Join(o.opts.WorkDir, "tests-"+id),
		Dir:      filepath.Join(o.opts.WorkDir, "env-"+id),
	}

	if err := os.MkdirAll(o.opts.WorkDir, 0o750); err != nil {
		return env, &EnvironmentSetupError{Step: "work directory", Err: err}
	}

	o.log.WithFields(logrus.Fields{
		"repository": o.session.RepositoryURL,
		"tests_dir":  env.TestsDir,
		"env_dir":    env.Dir,
	}).Info("preparing environment")

	err := o.timed(metrics.PhaseClone, func() error {
		if err := o.git.Clone(ctx, o.session.RepositoryURL, env.TestsDir); err != nil {
			return &EnvironmentSetupError{Step: "clone", Err: err}
		}

		if o.opts.TestsBranch == "" {
			return nil
		}

		if err := o.git.CheckoutRemoteBranch(ctx, env.TestsDir, o.opts.TestsBranch); err != nil {
			return &EnvironmentSetupError{Step: "tests branch checkout", Err: err}
		}

		return nil
	})
	if err != nil {
		return env, err
	}

	err = o.timed(metrics.PhaseEnvironment, func() error {
		copyCommand := "cp -R " + shellquote.Join(env.TestsDir, env.Dir)
		if err := o.shell.Run(ctx, copyCommand, o.opts.WorkDir); err != nil {
			return &EnvironmentSetupError{Step: "environment copy", Err: err}
		}

		return nil
	})
	if err != nil {
		return env, err
	}

	if o.opts.PlatformVersion != "" {
		url, err := o.patcher.Patch(env.Dir, o.opts.PlatformVersion)
		if err != nil {
			return env, &ConfigError{Path: o.patcher.ConfigPath(env.Dir), Err: err}
		}

		o.log.WithField("url", url).Info("using pinned platform version")
	}

	err = o.timed(metrics.PhaseInstall, func() error {
		if err := o.shell.Run(ctx, o.session.Commands.InstallTests, env.TestsDir); err != nil {
			return &EnvironmentSetupError{Step: "install tests", Err: err}
		}

		return nil
	})
	if err != nil {
		return env, err
	}

	if err := o.runtime.CheckPorts(); err != nil {
		return env, &EnvironmentSetupError{Step: "port check", Err: err}
	}

	err = o.timed(metrics.PhaseRuntimeStart, func() error {
		if err := o.runtime.Start(ctx, env.Dir); err != nil {
			return &EnvironmentSetupError{Step: "runtime start", Err: err}
		}

		return nil
	})
	if err != nil {
		return env, err
	}

	o.mu.Lock()
	o.runtimeRunning = true
	o.env = env
	o.mu.Unlock()

	return env, nil
}

func (o *Orchestrator) stopRuntime(ctx context.Context, dir string) error {
	err := o.timed(metrics.PhaseRuntimeStop, func() error {
		return o.runtime.Stop(ctx, dir)
	})
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.runtimeRunning = false
	o.mu.Unlock()

	return nil
}

// Shutdown stops the runtime if a session left it running. It is safe to
// call at any point, including concurrently with Run.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	running := o.runtimeRunning
	dir := o.env.Dir
	o.mu.Unlock()

	if !running {
		return nil
	}

	o.log.Warn("stopping runtime left running by an interrupted session")

	return o.stopRuntime(ctx, dir)
}

func (o *Orchestrator) timed(phase metrics.Phase, fn func() error) error {
	start := time.Now()
	err := fn()

	o.metrics.RecordPhase(&metrics.PhaseMetric{
		Phase:    phase,
		Duration: time.Since(start),
		Success:  err == nil,
	})

	return err
}

func (o *Orchestrator) setState(state State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.log.WithFields(logrus.Fields{
		"from": o.state,
		"to":   state,
	}).Debug("state transition")

	o.state = state
}

func (o *Orchestrator) setEnvironment(env Environment) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.env = env
}
