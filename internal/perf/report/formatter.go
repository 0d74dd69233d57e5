// Package report renders finished comparisons and persists their artifacts.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/ethpandaops/branchbench/internal/format"
	"github.com/ethpandaops/branchbench/internal/perf/metrics"
	"github.com/ethpandaops/branchbench/internal/perf/table"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Formatter provides clean, human-friendly output
type Formatter interface {
	PrintPhase(phase string)
	PrintProgress(message string, duration time.Duration)
	PrintSuccess(message string)
	PrintError(message string, err error)
	PrintComparison(t *Transposed)
	PrintPhases()
	PrintSummary()
}

type formatter struct {
	writer io.Writer
	unit   string

	metrics          metrics.Collector
	tableRenderer    table.Renderer
	phasesFormatter  *table.PhasesFormatter
	summaryFormatter *table.SummaryFormatter
	colors           *table.ColorHelper

	green *color.Color
	red   *color.Color
	blue  *color.Color
	gray  *color.Color
}

// NewFormatter creates a new output formatter
func NewFormatter(
	writer io.Writer,
	unit string,
	metricsCollector metrics.Collector,
	tableRenderer table.Renderer,
	phasesFormatter *table.PhasesFormatter,
	summaryFormatter *table.SummaryFormatter,
) Formatter {
	return &formatter{
		writer:           writer,
		unit:             unit,
		metrics:          metricsCollector,
		tableRenderer:    tableRenderer,
		phasesFormatter:  phasesFormatter,
		summaryFormatter: summaryFormatter,
		colors:           table.NewColorHelper(),
		green:            color.New(color.FgGreen),
		red:              color.New(color.FgRed),
		blue:             color.New(color.FgBlue),
		gray:             color.New(color.FgHiBlack),
	}
}

// PrintPhase prints phase separator
func (f *formatter) PrintPhase(phase string) {
	_, _ = f.blue.Fprintf(f.writer, "\n▸ %s\n", phase)
}

// PrintProgress prints progress with timing
func (f *formatter) PrintProgress(message string, duration time.Duration) {
	if duration > 0 {
		_, _ = f.gray.Fprintf(f.writer, "%s (%s)\n", message, format.Duration(duration))
	} else {
		_, _ = fmt.Fprintf(f.writer, "%s\n", message)
	}
}

// PrintSuccess prints a green message
func (f *formatter) PrintSuccess(message string) {
	_, _ = f.green.Fprintf(f.writer, "%s\n", message)
}

// PrintError prints a red message with error details
func (f *formatter) PrintError(message string, err error) {
	_, _ = f.red.Fprintf(f.writer, "%s", message)
	if err != nil {
		_, _ = f.red.Fprintf(f.writer, ": %v", err)
	}
	_, _ = fmt.Fprintf(f.writer, "\n")
}

// PrintComparison prints one suite's metric x branch table. Cells of later
// branches are colored against the first branch.
func (f *formatter) PrintComparison(t *Transposed) {
	headers := append([]string{"Metric"}, t.Branches...)
	rows := f.comparisonRows(t)

	alignments := make([]int, len(headers))
	for i := range alignments {
		alignments[i] = tablewriter.ALIGN_RIGHT
	}
	alignments[0] = tablewriter.ALIGN_LEFT

	_, _ = fmt.Fprintf(f.writer, "\n%s\n\n", f.colors.Header(">> "+t.Suite))
	f.tableRenderer.RenderToWriter(f.writer, headers, rows,
		table.WithAutoFormatHeaders(false),
		table.WithColumnAlignment(alignments),
	)
}

// comparisonRows renders the transposed cells. Absent cells are muted and
// later branches are colored against the first one.
func (f *formatter) comparisonRows(t *Transposed) [][]string {
	rows := t.Rows(f.unit)
	if len(t.Branches) == 0 {
		return rows
	}

	baseline := t.Branches[0]

	for i, metric := range t.Metrics {
		base, hasBase := t.Cell(metric, baseline)

		for j, branch := range t.Branches {
			v, ok := t.Cell(metric, branch)

			switch {
			case !ok:
				rows[i][j+1] = f.colors.Muted(rows[i][j+1])
			case j > 0 && hasBase:
				rows[i][j+1] = f.colors.FormatTiming(rows[i][j+1], v, base)
			}
		}
	}

	return rows
}

// PrintPhases prints a table of recorded session phases
func (f *formatter) PrintPhases() {
	output := f.phasesFormatter.Format(f.metrics.GetPhaseMetrics())
	if output == "" {
		return
	}

	_, _ = fmt.Fprintln(f.writer, output)
}

// PrintSummary prints a summary table with aggregate statistics
func (f *formatter) PrintSummary() {
	output := f.summaryFormatter.Format(f.metrics.GetSummary())
	_, _ = fmt.Fprintln(f.writer, output)
}
