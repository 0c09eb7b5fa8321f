package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/validation"
)

const statsWindowDays = 30

var ErrInvalidDay = errors.New("day must be formatted as YYYY-MM-DD")

type HabitInput struct {
	AreaID      *string `json:"area_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Frequency   string  `json:"frequency"`
	Active      *bool   `json:"active"`
}

type HabitService struct {
	repo     repository.HabitRepository
	areaRepo repository.AreaRepository
	loc      *time.Location
	now      func() time.Time
}

func NewHabitService(repo repository.HabitRepository, areaRepo repository.AreaRepository, loc *time.Location) *HabitService {
	if loc == nil {
		loc = time.UTC
	}
	return &HabitService{repo: repo, areaRepo: areaRepo, loc: loc, now: time.Now}
}

func (s *HabitService) validate(input *HabitInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Frequency == "" {
		input.Frequency = model.HabitFrequencyDaily
	}
	if input.AreaID != nil && *input.AreaID == "" {
		input.AreaID = nil
	}

	v := &validation.Errors{}
	v.Check("title", validation.ValidateTitle(input.Title))
	v.MaxLength("description", input.Description, 2000)
	v.OneOf("frequency", input.Frequency, model.ValidHabitFrequency(input.Frequency))
	if input.AreaID != nil {
		_, err := s.areaRepo.ByID(*input.AreaID)
		if errors.Is(err, repository.ErrAreaNotFound) {
			v.Add("area_id", "unknown area")
		} else if err != nil {
			return fmt.Errorf("failed to load area: %w", err)
		}
	}

	return v.Err()
}

func (s *HabitService) Create(input HabitInput) (*model.Habit, error) {
	err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	habit := &model.Habit{
		ID:          uuid.New().String(),
		AreaID:      input.AreaID,
		Title:       input.Title,
		Description: input.Description,
		Frequency:   input.Frequency,
		Active:      input.Active == nil || *input.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Create(habit)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return habit, nil
}

func (s *HabitService) ByID(habitID string) (*model.Habit, error) {
	return s.repo.ByID(habitID)
}

func (s *HabitService) Habits(activeOnly bool) ([]*model.Habit, error) {
	return s.repo.Habits(activeOnly)
}

func (s *HabitService) Update(habitID string, input HabitInput) (*model.Habit, error) {
	err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	habit, err := s.repo.ByID(habitID)
	if err != nil {
		return nil, err
	}

	habit.AreaID = input.AreaID
	habit.Title = input.Title
	habit.Description = input.Description
	habit.Frequency = input.Frequency
	if input.Active != nil {
		habit.Active = *input.Active
	}
	habit.UpdatedAt = s.now().UTC()

	err = s.repo.Update(habit)
	if err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) Delete(habitID string) error {
	return s.repo.Delete(habitID)
}

// Today is the current day in the tracker's timezone.
func (s *HabitService) Today() string {
	return s.now().In(s.loc).Format(model.DayLayout)
}

// Checkin records the habit as done on day. Repeated check-ins are no-ops.
func (s *HabitService) Checkin(habitID, day string) (*model.HabitCheckin, bool, error) {
	d, err := s.parseDay(day)
	if err != nil {
		return nil, false, err
	}

	_, err = s.repo.ByID(habitID)
	if err != nil {
		return nil, false, err
	}

	checkin := &model.HabitCheckin{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Day:       d.Format(model.DayLayout),
		CreatedAt: s.now().UTC(),
	}

	created, err := s.repo.Checkin(checkin)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check in: %w", err)
	}

	return checkin, created, nil
}

func (s *HabitService) Uncheck(habitID, day string) error {
	d, err := s.parseDay(day)
	if err != nil {
		return err
	}
	return s.repo.Uncheck(habitID, d.Format(model.DayLayout))
}

// parseDay accepts YYYY-MM-DD and refuses days in the future.
func (s *HabitService) parseDay(day string) (time.Time, error) {
	d, err := time.ParseInLocation(model.DayLayout, day, s.loc)
	if err != nil {
		return time.Time{}, validation.Field("day", ErrInvalidDay.Error())
	}
	if d.Format(model.DayLayout) > s.Today() {
		return time.Time{}, validation.Field("day", "cannot check in on a future day")
	}
	return d, nil
}

func (s *HabitService) Stats(habitID string) (*model.HabitStats, error) {
	habit, err := s.repo.ByID(habitID)
	if err != nil {
		return nil, err
	}

	days, err := s.repo.CheckinDays(habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	stats := computeStats(days, habit.Frequency, s.now().In(s.loc), habit.CreatedAt.In(s.loc))
	stats.HabitID = habitID
	return &stats, nil
}

// TodayHabits lists active habits with today's check-in state.
func (s *HabitService) TodayHabits() ([]*model.HabitToday, error) {
	habits, err := s.repo.Habits(true)
	if err != nil {
		return nil, err
	}

	checked, err := s.repo.CheckedInOn(s.Today())
	if err != nil {
		return nil, err
	}

	out := make([]*model.HabitToday, 0, len(habits))
	for _, h := range habits {
		out = append(out, &model.HabitToday{Habit: h, CheckedIn: checked[h.ID]})
	}
	return out, nil
}

// computeStats derives streaks and the recent completion rate from sorted
// check-in days. Daily habits count consecutive days, weekly habits
// consecutive ISO weeks. A streak stays current until its period has passed
// without a check-in, so an unchecked today does not break it.
func computeStats(days []string, frequency string, today, createdAt time.Time) model.HabitStats {
	stats := model.HabitStats{TotalCheckins: len(days)}
	if len(days) == 0 {
		return stats
	}

	loc := today.Location()
	var periods []int
	seen := make(map[int]bool)
	inWindow := make(map[int]bool)

	todayDate := dateOnly(today)
	windowStart := todayDate.AddDate(0, 0, -(statsWindowDays - 1))
	if created := dateOnly(createdAt.In(loc)); created.After(windowStart) {
		windowStart = created
	}

	for _, day := range days {
		d, err := time.ParseInLocation(model.DayLayout, day, loc)
		if err != nil {
			continue
		}
		p := period(d, frequency)
		if !seen[p] {
			seen[p] = true
			periods = append(periods, p)
		}
		if !d.Before(windowStart) && !d.After(todayDate) {
			inWindow[p] = true
		}
	}

	// Longest run of consecutive periods.
	run := 0
	for i, p := range periods {
		if i > 0 && p == periods[i-1]+1 {
			run++
		} else {
			run = 1
		}
		stats.LongestStreak = max(stats.LongestStreak, run)
	}

	// Current run ends at this period or the one before.
	current := period(todayDate, frequency)
	last := periods[len(periods)-1]
	if last == current || last == current-1 {
		stats.CurrentStreak = run
	}

	possible := 0
	for d := windowStart; !d.After(todayDate); d = d.AddDate(0, 0, 1) {
		if frequency == model.HabitFrequencyWeekly && !d.Equal(windowStart) && d.Weekday() != time.Monday {
			continue
		}
		possible++
	}
	if possible > 0 {
		rate := float64(len(inWindow)) / float64(possible)
		stats.CompletionRate = math.Round(math.Min(rate, 1)*1000) / 1000
	}

	return stats
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// period numbers days (or ISO weeks) so that consecutive periods differ by one.
func period(d time.Time, frequency string) int {
	days := int(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400)
	if frequency == model.HabitFrequencyWeekly {
		// 1970-01-01 was a Thursday; shift so weeks start on Monday.
		return (days + 3) / 7
	}
	return days
}
