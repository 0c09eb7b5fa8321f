package progress

import (
	"fmt"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/units"
)

// Aggregate folds metric entries into a single value expressed in unit.
// Entries logged in another unit of the same group are converted first.
// With no entries the fallback (usually the metric's start value) is returned.
func Aggregate(entries []*model.MetricEntry, aggregation, unit string, fallback float64) (float64, error) {
	if len(entries) == 0 {
		return fallback, nil
	}

	values := make([]float64, 0, len(entries))
	latest := entries[0]
	for _, e := range entries {
		v, err := units.Convert(e.Value, e.Unit, unit)
		if err != nil {
			return 0, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		values = append(values, v)
		if e.RecordedAt.After(latest.RecordedAt) {
			latest = e
		}
	}

	switch aggregation {
	case model.AggregationSum, model.AggregationAvg:
		var sum float64
		for _, v := range values {
			sum += v
		}
		if aggregation == model.AggregationAvg {
			return sum / float64(len(values)), nil
		}
		return sum, nil
	case model.AggregationMax:
		best := values[0]
		for _, v := range values[1:] {
			best = max(best, v)
		}
		return best, nil
	case model.AggregationMin:
		best := values[0]
		for _, v := range values[1:] {
			best = min(best, v)
		}
		return best, nil
	default:
		return units.Convert(latest.Value, latest.Unit, unit)
	}
}
