package report

import (
	"github.com/ethpandaops/branchbench/internal/format"
	"github.com/ethpandaops/branchbench/internal/perf/results"
)

// Absent is displayed for a metric a branch did not report.
const Absent = "n/a"

// Transposed is a suite's results regrouped as metric -> branch, the layout
// used for display.
type Transposed struct {
	Suite    string
	Metrics  []string
	Branches []string
	cells    map[string]map[string]float64
}

// Transpose regroups the branch-keyed results of suite into metric rows.
// Metrics follow report order; a metric appears if any branch carries it.
func Transpose(suite string, table *results.Table) *Transposed {
	t := &Transposed{
		Suite:    suite,
		Branches: table.Branches(suite),
		cells:    make(map[string]map[string]float64),
	}

	union := make(results.Curated)

	for _, branch := range t.Branches {
		result, ok := table.Get(suite, branch)
		if !ok {
			continue
		}

		for metric, value := range result {
			row, ok := t.cells[metric]
			if !ok {
				row = make(map[string]float64, len(t.Branches))
				t.cells[metric] = row
			}

			row[branch] = value
			union[metric] = value
		}
	}

	t.Metrics = results.OrderedKeys(union)

	return t
}

// Cell returns the value of metric for branch.
func (t *Transposed) Cell(metric, branch string) (float64, bool) {
	v, ok := t.cells[metric][branch]
	return v, ok
}

// Rows renders every metric as a row: the metric name followed by one
// "<value> <unit>" cell per branch, or Absent.
func (t *Transposed) Rows(unit string) [][]string {
	rows := make([][]string, 0, len(t.Metrics))

	for _, metric := range t.Metrics {
		row := make([]string, 0, len(t.Branches)+1)
		row = append(row, metric)

		for _, branch := range t.Branches {
			if v, ok := t.Cell(metric, branch); ok {
				row = append(row, format.Measurement(v, unit))
			} else {
				row = append(row, Absent)
			}
		}

		rows = append(rows, row)
	}

	return rows
}
