package model

import (
	"time"
)

const (
	RecurrenceNone    = "none"
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

type Step struct {
	ID          string     `db:"id" json:"id"`
	GoalID      *string    `db:"goal_id" json:"goal_id"`
	Title       string     `db:"title" json:"title"`
	Notes       string     `db:"notes" json:"notes"`
	Recurrence  string     `db:"recurrence" json:"recurrence"`
	DueDate     *time.Time `db:"due_date" json:"due_date"`
	Completed   bool       `db:"completed" json:"completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
	Position    int        `db:"position" json:"position"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func ValidRecurrence(r string) bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

func (s *Step) IsRecurring() bool {
	return s.Recurrence != "" && s.Recurrence != RecurrenceNone
}

// PeriodEnd returns when a completed recurring step becomes due again.
// Periods are calendar based in loc: next midnight, next Monday, first of next month.
func (s *Step) PeriodEnd(loc *time.Location) (time.Time, bool) {
	if !s.Completed || s.CompletedAt == nil || !s.IsRecurring() {
		return time.Time{}, false
	}

	c := s.CompletedAt.In(loc)
	day := time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, loc)

	switch s.Recurrence {
	case RecurrenceDaily:
		return day.AddDate(0, 0, 1), true
	case RecurrenceWeekly:
		offset := (int(day.Weekday()) + 6) % 7 // days since Monday
		return day.AddDate(0, 0, 7-offset), true
	case RecurrenceMonthly:
		return time.Date(c.Year(), c.Month()+1, 1, 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}
