package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/model"
)

func TestGoalDeleteCascade(t *testing.T) {
	database := newTestDB(t)
	goals := NewGoalRepository(database)
	steps := NewStepRepository(database)
	metrics := NewMetricRepository(database)

	tests := []struct {
		name          string
		cascade       bool
		wantRemaining int
	}{
		{name: "cascade deletes children", cascade: true, wantRemaining: 0},
		{name: "detach keeps children", cascade: false, wantRemaining: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := newGoal("Run a marathon")
			require.NoError(t, goals.Create(goal))

			step := newStep(&goal.ID, "Buy shoes")
			require.NoError(t, steps.Create(step))
			metric := newMetric(&goal.ID, "Weight")
			require.NoError(t, metrics.Create(metric))

			require.NoError(t, goals.Delete(goal.ID, tt.cascade))

			_, err := goals.ByID(goal.ID)
			assert.ErrorIs(t, err, ErrGoalNotFound)

			var stepCount, metricCount int
			require.NoError(t, database.Get(&stepCount, `SELECT COUNT(*) FROM steps WHERE id = $1`, step.ID))
			require.NoError(t, database.Get(&metricCount, `SELECT COUNT(*) FROM metrics WHERE id = $1`, metric.ID))
			assert.Equal(t, tt.wantRemaining, stepCount)
			assert.Equal(t, tt.wantRemaining, metricCount)

			if !tt.cascade {
				kept, err := steps.ByID(step.ID)
				require.NoError(t, err)
				assert.Nil(t, kept.GoalID)

				keptMetric, err := metrics.ByID(metric.ID)
				require.NoError(t, err)
				assert.Nil(t, keptMetric.GoalID)
			}
		})
	}
}

func TestGoalDeleteMissing(t *testing.T) {
	goals := NewGoalRepository(newTestDB(t))
	assert.ErrorIs(t, goals.Delete("missing", true), ErrGoalNotFound)
}

func TestGoalsFilterAndSort(t *testing.T) {
	database := newTestDB(t)
	goals := NewGoalRepository(database)

	a := newGoal("beta")
	a.Progress = 10
	b := newGoal("Alpha")
	b.Progress = 80
	c := newGoal("gamma")
	c.Status = model.GoalStatusArchived
	for _, g := range []*model.Goal{a, b, c} {
		require.NoError(t, goals.Create(g))
	}

	active, err := goals.Goals(GoalFilter{Status: model.GoalStatusActive, SortBy: GoalSortProgress})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, b.ID, active[0].ID)

	all, err := goals.Goals(GoalFilter{SortBy: GoalSortTitle})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alpha", all[0].Title)

	count, err := goals.CountByStatus(model.GoalStatusArchived)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGoalUpdateProgress(t *testing.T) {
	goals := NewGoalRepository(newTestDB(t))

	goal := newGoal("Read 12 books")
	require.NoError(t, goals.Create(goal))
	require.NoError(t, goals.UpdateProgress(goal.ID, 100, model.GoalStatusCompleted))

	got, err := goals.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, model.GoalStatusCompleted, got.Status)

	assert.ErrorIs(t, goals.UpdateProgress("missing", 5, model.GoalStatusActive), ErrGoalNotFound)
}

func TestGoalDeleteRollsBackOnError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	goals := NewGoalRepository(sqlx.NewDb(mockDB, "sqlmock"))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE metrics SET goal_id = NULL WHERE goal_id = $1`)).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE steps SET goal_id = NULL WHERE goal_id = $1`)).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM goals WHERE id = $1`)).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = goals.Delete("g1", false)
	assert.ErrorIs(t, err, ErrGoalNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
