package perf

import (
	"math"
	"testing"

	"github.com/ethpandaops/branchbench/internal/perf/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurate(t *testing.T) {
	raw := rawSample(10, 20, 30)
	raw[results.MetricLoad] = []float64{100, 200}

	curated, err := Curate(raw)
	require.NoError(t, err)

	assert.Len(t, curated, len(results.CuratedKeys()))
	assert.InDelta(t, 150, curated[results.MetricLoad], 1e-9)
	assert.NotContains(t, curated, "minLoad")

	for _, metric := range results.DistributionMetrics {
		assert.InDelta(t, 20, curated[metric], 1e-9, metric)
		assert.InDelta(t, 10, curated[results.MinKey(metric)], 1e-9, metric)
		assert.InDelta(t, 30, curated[results.MaxKey(metric)], 1e-9, metric)
	}
}

func TestCurate_SingleObservation(t *testing.T) {
	curated, err := Curate(rawSample(42))
	require.NoError(t, err)

	assert.InDelta(t, 42, curated["inserterHover"], 1e-9)
	assert.InDelta(t, 42, curated["minInserterHover"], 1e-9)
	assert.InDelta(t, 42, curated["maxInserterHover"], 1e-9)
}

func TestCurate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(results.RawSample)
		field  string
	}{
		{
			name:   "missing metric",
			mutate: func(r results.RawSample) { delete(r, results.MetricFocus) },
			field:  results.MetricFocus,
		},
		{
			name:   "empty series",
			mutate: func(r results.RawSample) { r[results.MetricType] = []float64{} },
			field:  results.MetricType,
		},
		{
			name:   "nan observation",
			mutate: func(r results.RawSample) { r[results.MetricLoad] = []float64{1, math.NaN()} },
			field:  results.MetricLoad,
		},
		{
			name:   "infinite observation",
			mutate: func(r results.RawSample) { r[results.MetricInserterOpen] = []float64{math.Inf(1)} },
			field:  results.MetricInserterOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawSample(1, 2, 3)
			tt.mutate(raw)

			_, err := Curate(raw)
			require.Error(t, err)

			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestCurate_IgnoresUntrackedMetrics(t *testing.T) {
	raw := rawSample(1)
	raw["paint"] = []float64{99}

	curated, err := Curate(raw)
	require.NoError(t, err)
	assert.NotContains(t, curated, "paint")
}
