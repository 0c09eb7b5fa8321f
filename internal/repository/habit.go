package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

var (
	ErrHabitNotFound   = errors.New("habit not found")
	ErrCheckinNotFound = errors.New("check-in not found")
)

type HabitRepository interface {
	Create(habit *model.Habit) error
	ByID(habitID string) (*model.Habit, error)
	Habits(activeOnly bool) ([]*model.Habit, error)
	Update(habit *model.Habit) error
	Delete(habitID string) error

	// Checkin inserts a check-in and reports whether a new row was written.
	Checkin(checkin *model.HabitCheckin) (bool, error)
	Uncheck(habitID, day string) error
	CheckinDays(habitID string) ([]string, error)
	CheckedInOn(day string) (map[string]bool, error)
}

type habitRepository struct {
	db *sqlx.DB
}

func NewHabitRepository(db *sqlx.DB) HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(habit *model.Habit) error {
	query := `INSERT INTO habits (id, area_id, title, description, frequency, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		habit.ID,
		habit.AreaID,
		habit.Title,
		habit.Description,
		habit.Frequency,
		habit.Active,
		habit.CreatedAt,
		habit.UpdatedAt,
	)

	return err
}

func (r *habitRepository) ByID(habitID string) (*model.Habit, error) {
	habit := &model.Habit{}
	query := `SELECT * FROM habits WHERE id = $1`

	err := r.db.Get(habit, query, habitID)
	if err == sql.ErrNoRows {
		return nil, ErrHabitNotFound
	}

	return habit, err
}

func (r *habitRepository) Habits(activeOnly bool) ([]*model.Habit, error) {
	var habits []*model.Habit
	query := `SELECT * FROM habits WHERE ($1 = false OR active = true) ORDER BY created_at ASC`

	err := r.db.Select(&habits, query, activeOnly)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

func (r *habitRepository) Update(habit *model.Habit) error {
	query := `UPDATE habits
	          SET area_id = $1, title = $2, description = $3, frequency = $4, active = $5, updated_at = $6
	          WHERE id = $7`

	result, err := r.db.Exec(query,
		habit.AreaID,
		habit.Title,
		habit.Description,
		habit.Frequency,
		habit.Active,
		habit.UpdatedAt,
		habit.ID,
	)
	if err != nil {
		return err
	}

	return expectRows(result, ErrHabitNotFound)
}

func (r *habitRepository) Delete(habitID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM habit_checkins WHERE habit_id = $1`, habitID); err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM habits WHERE id = $1`, habitID)
	if err != nil {
		return err
	}
	if err := expectRows(result, ErrHabitNotFound); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *habitRepository) Checkin(checkin *model.HabitCheckin) (bool, error) {
	query := `INSERT INTO habit_checkins (id, habit_id, day, created_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (habit_id, day) DO NOTHING`

	result, err := r.db.Exec(query, checkin.ID, checkin.HabitID, checkin.Day, checkin.CreatedAt)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *habitRepository) Uncheck(habitID, day string) error {
	query := `DELETE FROM habit_checkins WHERE habit_id = $1 AND day = $2`
	result, err := r.db.Exec(query, habitID, day)
	if err != nil {
		return err
	}

	return expectRows(result, ErrCheckinNotFound)
}

// CheckinDays returns the habit's check-in days, oldest first.
func (r *habitRepository) CheckinDays(habitID string) ([]string, error) {
	var days []string
	query := `SELECT day FROM habit_checkins WHERE habit_id = $1 ORDER BY day ASC`

	err := r.db.Select(&days, query, habitID)
	if err != nil {
		return nil, err
	}

	return days, nil
}

// CheckedInOn returns the ids of habits checked in on day.
func (r *habitRepository) CheckedInOn(day string) (map[string]bool, error) {
	var ids []string
	query := `SELECT habit_id FROM habit_checkins WHERE day = $1`

	err := r.db.Select(&ids, query, day)
	if err != nil {
		return nil, err
	}

	checked := make(map[string]bool, len(ids))
	for _, id := range ids {
		checked[id] = true
	}
	return checked, nil
}
