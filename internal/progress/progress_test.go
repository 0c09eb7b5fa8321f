package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/model"
)

func TestMetricRatio(t *testing.T) {
	tests := []struct {
		name                   string
		start, target, current float64
		want                   float64
	}{
		{name: "halfway up", start: 0, target: 10, current: 5, want: 0.5},
		{name: "halfway down", start: 90, target: 80, current: 85, want: 0.5},
		{name: "overshoot clamps", start: 0, target: 10, current: 15, want: 1},
		{name: "wrong direction clamps", start: 90, target: 80, current: 95, want: 0},
		{name: "flat target reached", start: 5, target: 5, current: 6, want: 1},
		{name: "flat target missed", start: 5, target: 5, current: 4, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MetricRatio(tt.start, tt.target, tt.current), 1e-9)
		})
	}
}

func TestCalculate(t *testing.T) {
	done := &model.Step{Completed: true}
	open := &model.Step{}

	tests := []struct {
		name    string
		steps   []*model.Step
		metrics []*model.Metric
		want    int
		ok      bool
	}{
		{name: "nothing to derive from", ok: false},
		{name: "steps only", steps: []*model.Step{done, open, open, open}, want: 25, ok: true},
		{name: "all steps done", steps: []*model.Step{done, done}, want: 100, ok: true},
		{
			name:    "metric only",
			metrics: []*model.Metric{{StartValue: 0, TargetValue: 200, CurrentValue: 50}},
			want:    25,
			ok:      true,
		},
		{
			name:    "steps and metrics averaged",
			steps:   []*model.Step{done, open},
			metrics: []*model.Metric{{StartValue: 0, TargetValue: 10, CurrentValue: 10}, {StartValue: 0, TargetValue: 10, CurrentValue: 0}},
			want:    50,
			ok:      true,
		},
		{
			name:    "overshooting metric never exceeds 100",
			metrics: []*model.Metric{{StartValue: 0, TargetValue: 10, CurrentValue: 1000}},
			want:    100,
			ok:      true,
		},
		{
			name:    "regressing metric never below 0",
			metrics: []*model.Metric{{StartValue: 10, TargetValue: 20, CurrentValue: -50}},
			want:    0,
			ok:      true,
		},
		{
			name:  "rounds to nearest",
			steps: []*model.Step{done, open, open},
			want:  33,
			ok:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Calculate(tt.steps, tt.metrics)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5))
	assert.Equal(t, 100, Clamp(250))
	assert.Equal(t, 42, Clamp(42))
}

func TestAggregate(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	entries := []*model.MetricEntry{
		{ID: "a", Value: 80, Unit: "kg", RecordedAt: t0},
		{ID: "b", Value: 79500, Unit: "g", RecordedAt: t0.Add(48 * time.Hour)},
		{ID: "c", Value: 81, Unit: "kg", RecordedAt: t0.Add(24 * time.Hour)},
	}

	tests := []struct {
		aggregation string
		want        float64
	}{
		{aggregation: model.AggregationLatest, want: 79.5},
		{aggregation: model.AggregationSum, want: 240.5},
		{aggregation: model.AggregationMax, want: 81},
		{aggregation: model.AggregationMin, want: 79.5},
		{aggregation: model.AggregationAvg, want: 240.5 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.aggregation, func(t *testing.T) {
			got, err := Aggregate(entries, tt.aggregation, "kg", 0)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAggregateFallbackAndErrors(t *testing.T) {
	got, err := Aggregate(nil, model.AggregationSum, "km", 12)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got)

	_, err = Aggregate([]*model.MetricEntry{{ID: "x", Value: 1, Unit: "kg"}}, model.AggregationSum, "km", 0)
	assert.Error(t, err)
}
