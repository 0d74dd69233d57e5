// Package results holds the data model shared by the benchmark pipeline:
// raw samples, curated results and the suite/branch comparison table.
package results

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

const (
	// MetricLoad is the scalar metric; only its mean is kept.
	MetricLoad = "load"
	// MetricType is the typing latency distribution.
	MetricType = "type"
	// MetricFocus is the block focus latency distribution.
	MetricFocus = "focus"
	// MetricInserterOpen is the inserter open latency distribution.
	MetricInserterOpen = "inserterOpen"
	// MetricInserterHover is the inserter hover latency distribution.
	MetricInserterHover = "inserterHover"
)

// DistributionMetrics lists the metrics curated into mean, min and max.
var DistributionMetrics = []string{
	MetricType,
	MetricFocus,
	MetricInserterOpen,
	MetricInserterHover,
}

// TrackedMetrics lists every metric a raw sample must carry.
func TrackedMetrics() []string {
	out := make([]string, 0, len(DistributionMetrics)+1)
	out = append(out, MetricLoad)
	out = append(out, DistributionMetrics...)

	return out
}

// RawSample maps a metric name to the observations gathered during one
// test-suite execution.
type RawSample map[string][]float64

// Curated maps a derived metric name to a single number.
type Curated map[string]float64

// Clone returns a copy of c.
func (c Curated) Clone() Curated {
	out := make(Curated, len(c))
	for k, v := range c {
		out[k] = v
	}

	return out
}

// MinKey returns the derived key holding the minimum of a distribution metric.
func MinKey(metric string) string {
	return "min" + upperFirst(metric)
}

// MaxKey returns the derived key holding the maximum of a distribution metric.
func MaxKey(metric string) string {
	return "max" + upperFirst(metric)
}

// CuratedKeys returns the derived metric names in report order.
func CuratedKeys() []string {
	keys := []string{MetricLoad}
	for _, m := range DistributionMetrics {
		keys = append(keys, m, MinKey(m), MaxKey(m))
	}

	return keys
}

// OrderedKeys returns the keys of c: known derived keys first in report
// order, then any other key alphabetically.
func OrderedKeys(c Curated) []string {
	known := make(map[string]bool)
	keys := make([]string, 0, len(c))

	for _, k := range CuratedKeys() {
		known[k] = true
		if _, ok := c[k]; ok {
			keys = append(keys, k)
		}
	}

	extra := make([]string, 0)
	for k := range c {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	return append(keys, extra...)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
