package service

import (
	"fmt"
	"time"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/repository"
)

const upcomingBookingsLimit = 5

type DashboardService struct {
	goals    *GoalService
	habits   *HabitService
	steps    *StepService
	bookings *BookingService
	now      func() time.Time
}

func NewDashboardService(goals *GoalService, habits *HabitService, steps *StepService, bookings *BookingService) *DashboardService {
	return &DashboardService{
		goals:    goals,
		habits:   habits,
		steps:    steps,
		bookings: bookings,
		now:      time.Now,
	}
}

// Dashboard collects today's overview: active goals by progress, today's habits
// with their check-in state, open steps due today and the next bookings.
func (s *DashboardService) Dashboard() (*model.Dashboard, error) {
	counts, err := s.goals.Counts()
	if err != nil {
		return nil, err
	}

	goals, err := s.goals.Goals(repository.GoalFilter{
		Status: model.GoalStatusActive,
		SortBy: repository.GoalSortProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load active goals: %w", err)
	}

	habits, err := s.habits.TodayHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	steps, err := s.steps.DueToday(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load due steps: %w", err)
	}

	bookings, err := s.bookings.Upcoming(upcomingBookingsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming bookings: %w", err)
	}

	return &model.Dashboard{
		Day:              s.habits.Today(),
		GoalCounts:       counts,
		ActiveGoals:      nonNil(goals),
		Habits:           nonNil(habits),
		DueSteps:         nonNil(steps),
		UpcomingBookings: nonNil(bookings),
	}, nil
}
