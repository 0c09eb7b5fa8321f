// Package progress derives goal completion percentages from steps and metrics.
package progress

import (
	"math"

	"github.com/templui/lifeos/internal/model"
)

// StepRatio is the completed share of steps; 0 when there are none.
func StepRatio(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clamp01(float64(completed) / float64(total))
}

// MetricRatio measures how far current has moved from start towards target.
// Works for decreasing targets (weight loss) as well as increasing ones.
func MetricRatio(start, target, current float64) float64 {
	if start == target {
		if reached(start, target, current) {
			return 1
		}
		return 0
	}
	return clamp01((current - start) / (target - start))
}

func reached(start, target, current float64) bool {
	if target >= start {
		return current >= target
	}
	return current <= target
}

// Calculate combines the step completion ratio and each metric ratio into a
// percentage. The step ratio counts as one component and every metric as one
// more; the result is their mean, rounded and clamped to [0, 100].
// ok is false when there is nothing to derive progress from.
func Calculate(steps []*model.Step, metrics []*model.Metric) (pct int, ok bool) {
	var components []float64

	if len(steps) > 0 {
		completed := 0
		for _, s := range steps {
			if s.Completed {
				completed++
			}
		}
		components = append(components, StepRatio(completed, len(steps)))
	}

	for _, m := range metrics {
		components = append(components, MetricRatio(m.StartValue, m.TargetValue, m.CurrentValue))
	}

	if len(components) == 0 {
		return 0, false
	}

	var sum float64
	for _, c := range components {
		sum += c
	}

	return Clamp(int(math.Round(sum / float64(len(components)) * 100))), true
}

// Clamp bounds a percentage to [0, 100].
func Clamp(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
