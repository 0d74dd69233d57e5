package report

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ethpandaops/branchbench/internal/perf/results"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ArtifactSuffix is appended to the suite name to form its artifact file name.
const ArtifactSuffix = "-performance-results.json"

var errNoTable = errors.New("run has no results table")

// JSONWriter persists JSON documents.
type JSONWriter interface {
	WriteJSON(path string, v any) error
}

// Publisher ships a finished run to an external store.
type Publisher interface {
	Publish(ctx context.Context, run *results.Run) error
}

// ReporterConfig contains configuration for a Reporter.
type ReporterConfig struct {
	Logger       logrus.FieldLogger
	Formatter    Formatter
	Files        JSONWriter
	ArtifactsDir string
	// Publisher is optional.
	Publisher Publisher
}

// Reporter prints the comparison tables of a finished run and persists one
// artifact per suite.
type Reporter struct {
	log          logrus.FieldLogger
	formatter    Formatter
	files        JSONWriter
	artifactsDir string
	publisher    Publisher
}

// NewReporter creates a new reporter.
func NewReporter(cfg *ReporterConfig) *Reporter {
	return &Reporter{
		log:          cfg.Logger.WithField("component", "reporter"),
		formatter:    cfg.Formatter,
		files:        cfg.Files,
		artifactsDir: cfg.ArtifactsDir,
		publisher:    cfg.Publisher,
	}
}

// ArtifactPath returns where the results of suite are persisted in dir.
func ArtifactPath(dir, suite string) string {
	return filepath.Join(dir, suite+ArtifactSuffix)
}

// Report prints every suite of run, then writes the artifacts and publishes
// the run concurrently.
func (r *Reporter) Report(ctx context.Context, run *results.Run) error {
	if run.Table == nil {
		return errNoTable
	}

	suites := run.Table.Suites()

	for _, suite := range suites {
		r.formatter.PrintComparison(Transpose(suite, run.Table))
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, suite := range suites {
		suite := suite

		g.Go(func() error {
			path := ArtifactPath(r.artifactsDir, suite)
			if err := r.files.WriteJSON(path, run.Table.Suite(suite)); err != nil {
				return fmt.Errorf("writing results of %s: %w", suite, err)
			}

			r.log.WithFields(logrus.Fields{
				"suite": suite,
				"path":  path,
			}).Info("results written")

			return nil
		})
	}

	if r.publisher != nil {
		g.Go(func() error {
			if err := r.publisher.Publish(gctx, run); err != nil {
				return fmt.Errorf("publishing results: %w", err)
			}

			return nil
		})
	}

	return g.Wait()
}
