package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/model"
)

func newHabit(title string) *model.Habit {
	ts := now()
	return &model.Habit{
		ID:        uuid.New().String(),
		Title:     title,
		Frequency: model.HabitFrequencyDaily,
		Active:    true,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func checkin(habitID, day string) *model.HabitCheckin {
	return &model.HabitCheckin{ID: uuid.New().String(), HabitID: habitID, Day: day, CreatedAt: now()}
}

func TestCheckinIsIdempotent(t *testing.T) {
	habits := NewHabitRepository(newTestDB(t))

	habit := newHabit("Meditate")
	require.NoError(t, habits.Create(habit))

	created, err := habits.Checkin(checkin(habit.ID, "2026-03-02"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = habits.Checkin(checkin(habit.ID, "2026-03-02"))
	require.NoError(t, err)
	assert.False(t, created)

	_, err = habits.Checkin(checkin(habit.ID, "2026-03-01"))
	require.NoError(t, err)

	days, err := habits.CheckinDays(habit.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-01", "2026-03-02"}, days)

	checked, err := habits.CheckedInOn("2026-03-02")
	require.NoError(t, err)
	assert.True(t, checked[habit.ID])

	require.NoError(t, habits.Uncheck(habit.ID, "2026-03-02"))
	assert.ErrorIs(t, habits.Uncheck(habit.ID, "2026-03-02"), ErrCheckinNotFound)
}

func TestHabitsActiveOnly(t *testing.T) {
	habits := NewHabitRepository(newTestDB(t))

	active := newHabit("Read")
	paused := newHabit("Cold shower")
	paused.Active = false
	require.NoError(t, habits.Create(active))
	require.NoError(t, habits.Create(paused))

	list, err := habits.Habits(true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	list, err = habits.Habits(false)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestHabitDeleteRemovesCheckins(t *testing.T) {
	database := newTestDB(t)
	habits := NewHabitRepository(database)

	habit := newHabit("Journal")
	require.NoError(t, habits.Create(habit))
	_, err := habits.Checkin(checkin(habit.ID, "2026-03-02"))
	require.NoError(t, err)

	require.NoError(t, habits.Delete(habit.ID))

	var count int
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM habit_checkins`))
	assert.Zero(t, count)
	assert.ErrorIs(t, habits.Delete(habit.ID), ErrHabitNotFound)
}

func TestAreaDeleteDetachesGoalsAndHabits(t *testing.T) {
	database := newTestDB(t)
	areas := NewAreaRepository(database)
	goals := NewGoalRepository(database)
	habits := NewHabitRepository(database)

	ts := now()
	area := &model.Area{ID: uuid.New().String(), Name: "Health", CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, areas.Create(area))

	goal := newGoal("Run 10k")
	goal.AreaID = &area.ID
	require.NoError(t, goals.Create(goal))
	habit := newHabit("Stretch")
	habit.AreaID = &area.ID
	require.NoError(t, habits.Create(habit))

	require.NoError(t, areas.Delete(area.ID))

	g, err := goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Nil(t, g.AreaID)

	h, err := habits.ByID(habit.ID)
	require.NoError(t, err)
	assert.Nil(t, h.AreaID)

	assert.ErrorIs(t, areas.Delete(area.ID), ErrAreaNotFound)
}
