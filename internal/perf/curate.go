package perf

import (
	"fmt"
	"math"

	"github.com/ethpandaops/branchbench/internal/perf/results"
	"github.com/montanaflynn/stats"
)

// Curate reduces one raw sample set to its summary metrics: the mean of the
// scalar load metric, plus mean, min and max of every distribution metric.
// Every tracked metric must be present, non-empty and finite.
func Curate(raw results.RawSample) (results.Curated, error) {
	for _, metric := range results.TrackedMetrics() {
		if err := validateSeries(metric, raw[metric]); err != nil {
			return nil, err
		}
	}

	curated := make(results.Curated, len(results.CuratedKeys()))

	load, err := stats.Mean(raw[results.MetricLoad])
	if err != nil {
		return nil, fmt.Errorf("mean of %s: %w", results.MetricLoad, err)
	}
	curated[results.MetricLoad] = load

	for _, metric := range results.DistributionMetrics {
		series := stats.Float64Data(raw[metric])

		mean, err := series.Mean()
		if err != nil {
			return nil, fmt.Errorf("mean of %s: %w", metric, err)
		}

		lo, err := series.Min()
		if err != nil {
			return nil, fmt.Errorf("min of %s: %w", metric, err)
		}

		hi, err := series.Max()
		if err != nil {
			return nil, fmt.Errorf("max of %s: %w", metric, err)
		}

		curated[metric] = mean
		curated[results.MinKey(metric)] = lo
		curated[results.MaxKey(metric)] = hi
	}

	return curated, nil
}

func validateSeries(metric string, series []float64) error {
	if series == nil {
		return &InvalidInputError{Field: metric, Reason: "metric missing from raw sample"}
	}

	if len(series) == 0 {
		return &InvalidInputError{Field: metric, Reason: "no observations"}
	}

	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidInputError{
				Field:  metric,
				Reason: fmt.Sprintf("observation %d is not finite", i),
			}
		}
	}

	return nil
}
