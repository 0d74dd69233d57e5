package table

import (
	"fmt"

	"github.com/ethpandaops/branchbench/internal/format"
	"github.com/ethpandaops/branchbench/internal/perf/metrics"
	"github.com/sirupsen/logrus"
)

// PhasesFormatter formats the recorded session phases as a table.
type PhasesFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewPhasesFormatter creates a new phase table formatter.
func NewPhasesFormatter(log logrus.FieldLogger, renderer Renderer) *PhasesFormatter {
	return &PhasesFormatter{
		log:      log.WithField("component", "table.phases_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format converts phase metrics into a formatted table string, in recording
// order. Returns an empty string when nothing was recorded.
func (f *PhasesFormatter) Format(phases []metrics.PhaseMetric) string {
	if len(phases) == 0 {
		return ""
	}

	headers := []string{"Phase", "Branch", "Suite", "Round", "Duration", "Status"}
	rows := make([][]string, 0, len(phases))

	for _, pm := range phases {
		round := ""
		if pm.Round > 0 {
			round = fmt.Sprintf("%d", pm.Round)
		}

		rows = append(rows, []string{
			string(pm.Phase),
			orDash(pm.Branch),
			orDash(pm.Suite),
			orDash(round),
			format.Duration(pm.Duration),
			f.colors.FormatStatus(pm.Success),
		})
	}

	return "\n" + f.colors.Header("▸ Phases") + "\n\n" + f.renderer.RenderToString(headers, rows)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
