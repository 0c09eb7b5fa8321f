package model

import (
	"time"
)

const (
	AggregationLatest = "latest"
	AggregationSum    = "sum"
	AggregationMax    = "max"
	AggregationMin    = "min"
	AggregationAvg    = "avg"
)

type Metric struct {
	ID           string    `db:"id" json:"id"`
	GoalID       *string   `db:"goal_id" json:"goal_id"`
	Name         string    `db:"name" json:"name"`
	Unit         string    `db:"unit" json:"unit"`
	Aggregation  string    `db:"aggregation" json:"aggregation"`
	StartValue   float64   `db:"start_value" json:"start_value"`
	TargetValue  float64   `db:"target_value" json:"target_value"`
	CurrentValue float64   `db:"current_value" json:"current_value"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type MetricEntry struct {
	ID         string    `db:"id" json:"id"`
	MetricID   string    `db:"metric_id" json:"metric_id"`
	Value      float64   `db:"value" json:"value"`
	Unit       string    `db:"unit" json:"unit"`
	Note       string    `db:"note" json:"note"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func ValidAggregation(a string) bool {
	switch a {
	case AggregationLatest, AggregationSum, AggregationMax, AggregationMin, AggregationAvg:
		return true
	}
	return false
}
