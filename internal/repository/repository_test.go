package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/db"
	"github.com/templui/lifeos/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func newGoal(title string) *model.Goal {
	ts := now()
	return &model.Goal{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    model.GoalStatusActive,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func newStep(goalID *string, title string) *model.Step {
	ts := now()
	return &model.Step{
		ID:         uuid.New().String(),
		GoalID:     goalID,
		Title:      title,
		Recurrence: model.RecurrenceNone,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
}

func newMetric(goalID *string, name string) *model.Metric {
	ts := now()
	return &model.Metric{
		ID:          uuid.New().String(),
		GoalID:      goalID,
		Name:        name,
		Unit:        "kg",
		Aggregation: model.AggregationLatest,
		StartValue:  90,
		TargetValue: 80,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func newSlot(start time.Time) *model.Slot {
	return &model.Slot{
		ID:        uuid.New().String(),
		StartAt:   start.UTC(),
		EndAt:     start.UTC().Add(time.Hour),
		Source:    model.SlotSourceRecurring,
		CreatedAt: now(),
	}
}
