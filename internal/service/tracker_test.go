package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/validation"
)

type tracker struct {
	areas   *AreaService
	goals   *GoalService
	steps   *StepService
	metrics *MetricService
	habits  *HabitService
}

func newTracker(t *testing.T) *tracker {
	t.Helper()

	database := newTestDB(t)
	areaRepo := repository.NewAreaRepository(database)
	goalRepo := repository.NewGoalRepository(database)
	stepRepo := repository.NewStepRepository(database)
	metricRepo := repository.NewMetricRepository(database)

	goals := NewGoalService(goalRepo, stepRepo, metricRepo, areaRepo)
	return &tracker{
		areas:   NewAreaService(areaRepo),
		goals:   goals,
		steps:   NewStepService(stepRepo, goalRepo, goals, time.UTC),
		metrics: NewMetricService(metricRepo, goalRepo, goals),
		habits:  NewHabitService(repository.NewHabitRepository(database), areaRepo, time.UTC),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestGoalProgressFollowsSteps(t *testing.T) {
	tr := newTracker(t)

	goal, err := tr.goals.Create(GoalInput{Title: "Ship the book"})
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusActive, goal.Status)

	// Manual progress is allowed while nothing derives it.
	goal, err = tr.goals.SetProgress(goal.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, goal.Progress)

	first, err := tr.steps.Create(StepInput{GoalID: &goal.ID, Title: "Outline"})
	require.NoError(t, err)
	second, err := tr.steps.Create(StepInput{GoalID: &goal.ID, Title: "Draft"})
	require.NoError(t, err)

	goal, err = tr.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, goal.Progress)

	_, err = tr.goals.SetProgress(goal.ID, 70)
	assert.ErrorIs(t, err, ErrProgressDerived)

	_, err = tr.steps.Complete(first.ID)
	require.NoError(t, err)
	goal, err = tr.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, goal.Progress)

	_, err = tr.steps.Complete(second.ID)
	require.NoError(t, err)
	goal, err = tr.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, goal.Progress)
	assert.Equal(t, model.GoalStatusCompleted, goal.Status)

	step, err := tr.steps.Uncomplete(second.ID)
	require.NoError(t, err)
	assert.Nil(t, step.CompletedAt)
	goal, err = tr.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, goal.Progress)
	assert.Equal(t, model.GoalStatusActive, goal.Status)

	// Moving a step to no goal recalculates the goal it left.
	_, err = tr.steps.Update(second.ID, StepInput{Title: "Draft"})
	require.NoError(t, err)
	goal, err = tr.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, goal.Progress)
}

func TestGoalProgressCombinesMetrics(t *testing.T) {
	tr := newTracker(t)

	goal, err := tr.goals.Create(GoalInput{Title: "Get fit"})
	require.NoError(t, err)

	step, err := tr.steps.Create(StepInput{GoalID: &goal.ID, Title: "Sign up at the gym"})
	require.NoError(t, err)
	_, err = tr.steps.Complete(step.ID)
	require.NoError(t, err)

	metric, err := tr.metrics.Create(MetricInput{
		GoalID:      &goal.ID,
		Name:        "Weight",
		Unit:        "kgs",
		StartValue:  90,
		TargetValue: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, "kg", metric.Unit)
	assert.Equal(t, 90.0, metric.CurrentValue)

	// Step 1.0, metric 0.0.
	goal, err = tr.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, goal.Progress)

	day := time.Date(2030, 3, 1, 7, 0, 0, 0, time.UTC)
	_, metric, err = tr.metrics.AddEntry(metric.ID, EntryInput{Value: ptr(85.0), RecordedAt: &day})
	require.NoError(t, err)
	assert.Equal(t, 85.0, metric.CurrentValue)

	goal, err = tr.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, goal.Progress)

	later := day.AddDate(0, 0, 30)
	entry, metric, err := tr.metrics.AddEntry(metric.ID, EntryInput{Value: ptr(80000.0), Unit: "g", RecordedAt: &later})
	require.NoError(t, err)
	assert.Equal(t, "g", entry.Unit)
	assert.InDelta(t, 80.0, metric.CurrentValue, 1e-9)

	goal, err = tr.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, goal.Progress)
	assert.Equal(t, model.GoalStatusCompleted, goal.Status)

	metric, err = tr.metrics.DeleteEntry(metric.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 85.0, metric.CurrentValue)

	_, _, err = tr.metrics.AddEntry(metric.ID, EntryInput{Value: ptr(3.0), Unit: "km"})
	var verr *validation.Errors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "unit")

	_, _, err = tr.metrics.AddEntry(metric.ID, EntryInput{})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "value")

	// Entries in g block switching the metric to a distance unit.
	_, err = tr.metrics.Update(metric.ID, MetricInput{GoalID: &goal.ID, Name: "Weight", Unit: "lb", StartValue: 198, TargetValue: 176})
	require.NoError(t, err)
	_, err = tr.metrics.Update(metric.ID, MetricInput{GoalID: &goal.ID, Name: "Weight", Unit: "km", StartValue: 1, TargetValue: 2})
	require.ErrorAs(t, err, &verr)
}

func TestGoalValidation(t *testing.T) {
	tr := newTracker(t)

	tests := []struct {
		name      string
		input     GoalInput
		wantField string
	}{
		{name: "missing title", input: GoalInput{Title: "  "}, wantField: "title"},
		{name: "bad status", input: GoalInput{Title: "Read", Status: "paused"}, wantField: "status"},
		{name: "progress out of range", input: GoalInput{Title: "Read", Progress: ptr(120)}, wantField: "progress"},
		{name: "unknown area", input: GoalInput{Title: "Read", AreaID: ptr("nope")}, wantField: "area_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.goals.Create(tt.input)
			var verr *validation.Errors
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}

	goal, err := tr.goals.Create(GoalInput{Title: "Read"})
	require.NoError(t, err)
	_, err = tr.goals.SetProgress(goal.ID, 101)
	assert.ErrorIs(t, err, ErrInvalidProgress)

	_, err = tr.goals.Goals(repository.GoalFilter{Status: "paused"})
	assert.Error(t, err)
}

func TestGoalExportGroupsChildren(t *testing.T) {
	tr := newTracker(t)

	goal, err := tr.goals.Create(GoalInput{Title: "Learn Go"})
	require.NoError(t, err)
	_, err = tr.steps.Create(StepInput{GoalID: &goal.ID, Title: "Tour of Go"})
	require.NoError(t, err)
	_, err = tr.steps.Create(StepInput{Title: "Buy groceries"})
	require.NoError(t, err)
	_, err = tr.metrics.Create(MetricInput{Name: "Resting heart rate", Unit: "count", StartValue: 70, TargetValue: 55})
	require.NoError(t, err)

	export, err := tr.goals.Export()
	require.NoError(t, err)
	require.Len(t, export.Goals, 1)
	assert.Len(t, export.Goals[0].Steps, 1)
	assert.Empty(t, export.Goals[0].Metrics)
	assert.Len(t, export.Orphans.Steps, 1)
	assert.Len(t, export.Orphans.Metrics, 1)

	counts, err := tr.goals.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"active": 1, "completed": 0, "archived": 0}, counts)
}

func TestDeleteAreaKeepsGoalsAndHabits(t *testing.T) {
	tr := newTracker(t)

	area, err := tr.areas.Create(AreaInput{Name: "Health", Color: "#22aa55"})
	require.NoError(t, err)

	goal, err := tr.goals.Create(GoalInput{Title: "Run 10k", AreaID: &area.ID})
	require.NoError(t, err)
	habit, err := tr.habits.Create(HabitInput{Title: "Stretch", AreaID: &area.ID})
	require.NoError(t, err)

	require.NoError(t, tr.areas.Delete(area.ID))

	goal, err = tr.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Nil(t, goal.AreaID)

	habit, err = tr.habits.ByID(habit.ID)
	require.NoError(t, err)
	assert.Nil(t, habit.AreaID)

	_, err = tr.areas.Create(AreaInput{Name: "Work", Color: "blue"})
	var verr *validation.Errors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "color")
}

func TestResetRecurringSteps(t *testing.T) {
	tr := newTracker(t)

	goal, err := tr.goals.Create(GoalInput{Title: "Stay on top of email"})
	require.NoError(t, err)

	daily, err := tr.steps.Create(StepInput{GoalID: &goal.ID, Title: "Inbox zero", Recurrence: model.RecurrenceDaily})
	require.NoError(t, err)
	once, err := tr.steps.Create(StepInput{GoalID: &goal.ID, Title: "Unsubscribe from lists"})
	require.NoError(t, err)

	_, err = tr.steps.Complete(daily.ID)
	require.NoError(t, err)
	_, err = tr.steps.Complete(once.ID)
	require.NoError(t, err)

	n, err := tr.steps.ResetRecurring(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = tr.steps.ResetRecurring(time.Now().Add(48 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	step, err := tr.steps.ByID(daily.ID)
	require.NoError(t, err)
	assert.False(t, step.Completed)

	step, err = tr.steps.ByID(once.ID)
	require.NoError(t, err)
	assert.True(t, step.Completed)

	goal, err = tr.goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, goal.Progress)
}

func TestHabitCheckins(t *testing.T) {
	tr := newTracker(t)
	tr.habits.now = fixedClock(time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC))

	habit, err := tr.habits.Create(HabitInput{Title: "Meditate"})
	require.NoError(t, err)
	assert.Equal(t, model.HabitFrequencyDaily, habit.Frequency)

	_, created, err := tr.habits.Checkin(habit.ID, "2030-01-10")
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = tr.habits.Checkin(habit.ID, "2030-01-10")
	require.NoError(t, err)
	assert.False(t, created)

	for _, day := range []string{"2030-01-11", "10/01/2030"} {
		_, _, err = tr.habits.Checkin(habit.ID, day)
		var verr *validation.Errors
		require.ErrorAs(t, err, &verr, day)
		assert.Contains(t, verr.Fields, "day")
	}

	today, err := tr.habits.TodayHabits()
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.True(t, today[0].CheckedIn)

	require.NoError(t, tr.habits.Uncheck(habit.ID, "2030-01-10"))
	assert.ErrorIs(t, tr.habits.Uncheck(habit.ID, "2030-01-10"), repository.ErrCheckinNotFound)
}

func TestComputeStats(t *testing.T) {
	today := time.Date(2030, 1, 10, 18, 0, 0, 0, time.UTC) // Thursday
	created := time.Date(2029, 11, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		days      []string
		frequency string
		created   time.Time
		want      model.HabitStats
	}{
		{
			name:      "no check-ins",
			frequency: model.HabitFrequencyDaily,
			created:   created,
			want:      model.HabitStats{},
		},
		{
			name:      "daily streak through today",
			days:      []string{"2030-01-01", "2030-01-02", "2030-01-08", "2030-01-09", "2030-01-10"},
			frequency: model.HabitFrequencyDaily,
			created:   created,
			want:      model.HabitStats{CurrentStreak: 3, LongestStreak: 3, CompletionRate: 0.167, TotalCheckins: 5},
		},
		{
			name:      "daily streak ending yesterday is still current",
			days:      []string{"2030-01-08", "2030-01-09"},
			frequency: model.HabitFrequencyDaily,
			created:   created,
			want:      model.HabitStats{CurrentStreak: 2, LongestStreak: 2, CompletionRate: 0.067, TotalCheckins: 2},
		},
		{
			name:      "daily streak broken",
			days:      []string{"2030-01-07", "2030-01-08"},
			frequency: model.HabitFrequencyDaily,
			created:   created,
			want:      model.HabitStats{CurrentStreak: 0, LongestStreak: 2, CompletionRate: 0.067, TotalCheckins: 2},
		},
		{
			name:      "weekly consecutive weeks",
			days:      []string{"2030-01-01", "2030-01-08"},
			frequency: model.HabitFrequencyWeekly,
			created:   created,
			want:      model.HabitStats{CurrentStreak: 2, LongestStreak: 2, CompletionRate: 0.4, TotalCheckins: 2},
		},
		{
			name:      "created today",
			days:      []string{"2030-01-10"},
			frequency: model.HabitFrequencyDaily,
			created:   time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC),
			want:      model.HabitStats{CurrentStreak: 1, LongestStreak: 1, CompletionRate: 1, TotalCheckins: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeStats(tt.days, tt.frequency, today, tt.created)
			assert.Equal(t, tt.want, got)
		})
	}
}
