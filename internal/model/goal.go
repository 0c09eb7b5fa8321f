package model

import (
	"time"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusArchived  = "archived"
)

type Goal struct {
	ID          string     `db:"id" json:"id"`
	AreaID      *string    `db:"area_id" json:"area_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	Progress    int        `db:"progress" json:"progress"`
	TargetDate  *time.Time `db:"target_date" json:"target_date"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// GoalDetail is a goal together with the rows its progress is derived from.
type GoalDetail struct {
	*Goal
	Steps   []*Step   `json:"steps"`
	Metrics []*Metric `json:"metrics"`
}

func ValidGoalStatus(status string) bool {
	switch status {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusArchived:
		return true
	}
	return false
}
