package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

var (
	ErrStepNotFound = errors.New("step not found")
)

// StepFilter narrows Steps. Nil and empty fields match everything.
type StepFilter struct {
	GoalID    string
	Completed *bool
	DueBefore *time.Time
}

type StepRepository interface {
	Create(step *model.Step) error
	ByID(stepID string) (*model.Step, error)
	Steps(filter StepFilter) ([]*model.Step, error)
	StepsByGoal(goalID string) ([]*model.Step, error)
	CompletedRecurring() ([]*model.Step, error)
	Update(step *model.Step) error
	SetCompleted(stepID string, completedAt *time.Time) error
	Delete(stepID string) error
}

type stepRepository struct {
	db *sqlx.DB
}

func NewStepRepository(db *sqlx.DB) StepRepository {
	return &stepRepository{db: db}
}

func (r *stepRepository) Create(step *model.Step) error {
	query := `INSERT INTO steps (id, goal_id, title, notes, recurrence, due_date, completed, completed_at, position, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		step.ID,
		step.GoalID,
		step.Title,
		step.Notes,
		step.Recurrence,
		step.DueDate,
		step.Completed,
		step.CompletedAt,
		step.Position,
		step.CreatedAt,
		step.UpdatedAt,
	)

	return err
}

func (r *stepRepository) ByID(stepID string) (*model.Step, error) {
	step := &model.Step{}
	query := `SELECT * FROM steps WHERE id = $1`

	err := r.db.Get(step, query, stepID)
	if err == sql.ErrNoRows {
		return nil, ErrStepNotFound
	}

	return step, err
}

func (r *stepRepository) Steps(filter StepFilter) ([]*model.Step, error) {
	var (
		where []string
		args  []any
	)
	arg := func(clause string, v any) {
		args = append(args, v)
		where = append(where, strings.ReplaceAll(clause, "?", placeholder(len(args))))
	}

	if filter.GoalID != "" {
		arg("goal_id = ?", filter.GoalID)
	}
	if filter.Completed != nil {
		arg("completed = ?", *filter.Completed)
	}
	if filter.DueBefore != nil {
		arg("due_date IS NOT NULL AND due_date < ?", *filter.DueBefore)
	}

	query := `SELECT * FROM steps`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY completed ASC, position ASC, created_at ASC`

	var steps []*model.Step
	err := r.db.Select(&steps, query, args...)
	if err != nil {
		return nil, err
	}

	return steps, nil
}

func (r *stepRepository) StepsByGoal(goalID string) ([]*model.Step, error) {
	return r.Steps(StepFilter{GoalID: goalID})
}

func (r *stepRepository) CompletedRecurring() ([]*model.Step, error) {
	var steps []*model.Step
	query := `SELECT * FROM steps WHERE completed = $1 AND recurrence <> $2`

	err := r.db.Select(&steps, query, true, model.RecurrenceNone)
	if err != nil {
		return nil, err
	}

	return steps, nil
}

func (r *stepRepository) Update(step *model.Step) error {
	query := `UPDATE steps
	          SET goal_id = $1, title = $2, notes = $3, recurrence = $4, due_date = $5, position = $6, updated_at = $7
	          WHERE id = $8`

	result, err := r.db.Exec(query,
		step.GoalID,
		step.Title,
		step.Notes,
		step.Recurrence,
		step.DueDate,
		step.Position,
		step.UpdatedAt,
		step.ID,
	)
	if err != nil {
		return err
	}

	return expectRows(result, ErrStepNotFound)
}

// SetCompleted marks the step done at completedAt, or reopens it when nil.
func (r *stepRepository) SetCompleted(stepID string, completedAt *time.Time) error {
	query := `UPDATE steps SET completed = $1, completed_at = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.Exec(query, completedAt != nil, completedAt, time.Now().UTC(), stepID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrStepNotFound)
}

func (r *stepRepository) Delete(stepID string) error {
	query := `DELETE FROM steps WHERE id = $1`
	result, err := r.db.Exec(query, stepID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrStepNotFound)
}
