package table

import (
	"fmt"

	"github.com/ethpandaops/branchbench/internal/format"
	"github.com/ethpandaops/branchbench/internal/perf/metrics"
	"github.com/sirupsen/logrus"
)

// SummaryFormatter formats session summary statistics as a table.
type SummaryFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewSummaryFormatter creates a new summary table formatter.
func NewSummaryFormatter(log logrus.FieldLogger, renderer Renderer) *SummaryFormatter {
	return &SummaryFormatter{
		log:      log.WithField("component", "table.summary_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format converts summary metrics into a formatted table string.
func (f *SummaryFormatter) Format(summary metrics.SummaryMetric) string {
	failures := fmt.Sprintf("%d", summary.Failures)
	if summary.Failures > 0 {
		failures = f.colors.Failure(failures)
	} else {
		failures = f.colors.Success(failures)
	}

	var (
		headers = []string{"Metric", "Value"}
		rows    = [][]string{
			{"Branch Builds", f.colors.Bold(fmt.Sprintf("%d", summary.Builds))},
			{"Build Time", format.Duration(summary.BuildDuration)},
			{"Suite Rounds", f.colors.Bold(fmt.Sprintf("%d", summary.Rounds))},
			{"Round Time", format.Duration(summary.RoundDuration)},
			{"Failures", failures},
			{"Total Duration", format.Duration(summary.TotalDuration)},
		}
	)

	return "\n" + f.colors.Header("▸ Summary") + "\n\n" + f.renderer.RenderToString(headers, rows)
}
