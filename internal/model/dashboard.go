package model

type HabitToday struct {
	*Habit
	CheckedIn bool `json:"checked_in"`
}

type Dashboard struct {
	Day              string         `json:"day"`
	GoalCounts       map[string]int `json:"goal_counts"`
	ActiveGoals      []*Goal        `json:"active_goals"`
	Habits           []*HabitToday  `json:"habits"`
	DueSteps         []*Step        `json:"due_steps"`
	UpcomingBookings []*Booking     `json:"upcoming_bookings"`
}
