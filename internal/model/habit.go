package model

import (
	"time"
)

const (
	HabitFrequencyDaily  = "daily"
	HabitFrequencyWeekly = "weekly"
)

// DayLayout is the storage and wire format of habit check-in days.
const DayLayout = "2006-01-02"

type Habit struct {
	ID          string    `db:"id" json:"id"`
	AreaID      *string   `db:"area_id" json:"area_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Frequency   string    `db:"frequency" json:"frequency"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type HabitCheckin struct {
	ID        string    `db:"id" json:"id"`
	HabitID   string    `db:"habit_id" json:"habit_id"`
	Day       string    `db:"day" json:"day"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type HabitStats struct {
	HabitID        string  `json:"habit_id"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	CompletionRate float64 `json:"completion_rate"` // last 30 days, 0..1
	TotalCheckins  int     `json:"total_checkins"`
}

func ValidHabitFrequency(f string) bool {
	return f == HabitFrequencyDaily || f == HabitFrequencyWeekly
}
