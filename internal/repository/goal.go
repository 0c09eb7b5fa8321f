package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

const (
	GoalSortRecent   = "recent"
	GoalSortProgress = "progress"
	GoalSortTitle    = "title"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

// GoalFilter narrows Goals. Empty fields match everything.
type GoalFilter struct {
	Status string
	AreaID string
	SortBy string
}

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(goalID string) (*model.Goal, error)
	Goals(filter GoalFilter) ([]*model.Goal, error)
	CountByStatus(status string) (int, error)
	Update(goal *model.Goal) error
	UpdateProgress(goalID string, progress int, status string) error
	Delete(goalID string, cascade bool) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, area_id, title, description, status, progress, target_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.AreaID,
		goal.Title,
		goal.Description,
		goal.Status,
		goal.Progress,
		goal.TargetDate,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.Get(goal, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) Goals(filter GoalFilter) ([]*model.Goal, error) {
	var goals []*model.Goal

	// Validate and build ORDER BY clause
	var orderBy string
	switch filter.SortBy {
	case GoalSortProgress:
		orderBy = "ORDER BY progress DESC, updated_at DESC"
	case GoalSortTitle:
		orderBy = "ORDER BY LOWER(title) ASC"
	default: // GoalSortRecent or empty
		orderBy = "ORDER BY updated_at DESC"
	}

	query := `SELECT * FROM goals
	          WHERE ($1 = '' OR status = $1) AND ($2 = '' OR area_id = $2) ` + orderBy

	err := r.db.Select(&goals, query, filter.Status, filter.AreaID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) CountByStatus(status string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE status = $1`
	err := r.db.QueryRow(query, status).Scan(&count)
	return count, err
}

func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET area_id = $1, title = $2, description = $3, status = $4, progress = $5, target_date = $6, updated_at = $7
	          WHERE id = $8`

	result, err := r.db.Exec(query,
		goal.AreaID,
		goal.Title,
		goal.Description,
		goal.Status,
		goal.Progress,
		goal.TargetDate,
		goal.UpdatedAt,
		goal.ID,
	)
	if err != nil {
		return err
	}

	return expectRows(result, ErrGoalNotFound)
}

func (r *goalRepository) UpdateProgress(goalID string, progress int, status string) error {
	query := `UPDATE goals SET progress = $1, status = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.Exec(query, progress, status, time.Now().UTC(), goalID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrGoalNotFound)
}

// Delete removes a goal. With cascade its steps, metrics and metric entries go
// with it, otherwise they are kept and detached from the goal.
func (r *goalRepository) Delete(goalID string, cascade bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var children []string
	if cascade {
		children = []string{
			`DELETE FROM metric_entries WHERE metric_id IN (SELECT id FROM metrics WHERE goal_id = $1)`,
			`DELETE FROM metrics WHERE goal_id = $1`,
			`DELETE FROM steps WHERE goal_id = $1`,
		}
	} else {
		children = []string{
			`UPDATE metrics SET goal_id = NULL WHERE goal_id = $1`,
			`UPDATE steps SET goal_id = NULL WHERE goal_id = $1`,
		}
	}

	for _, query := range children {
		if _, err := tx.Exec(query, goalID); err != nil {
			return err
		}
	}

	result, err := tx.Exec(`DELETE FROM goals WHERE id = $1`, goalID)
	if err != nil {
		return err
	}
	if err := expectRows(result, ErrGoalNotFound); err != nil {
		return err
	}

	return tx.Commit()
}
