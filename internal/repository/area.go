package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

var (
	ErrAreaNotFound = errors.New("area not found")
)

type AreaRepository interface {
	Create(area *model.Area) error
	ByID(id string) (*model.Area, error)
	Areas() ([]*model.Area, error)
	Update(area *model.Area) error
	Delete(id string) error
}

type areaRepository struct {
	db *sqlx.DB
}

func NewAreaRepository(db *sqlx.DB) AreaRepository {
	return &areaRepository{db: db}
}

func (r *areaRepository) Create(area *model.Area) error {
	query := `INSERT INTO areas (id, name, color, position, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		area.ID,
		area.Name,
		area.Color,
		area.Position,
		area.CreatedAt,
		area.UpdatedAt,
	)

	return err
}

func (r *areaRepository) ByID(id string) (*model.Area, error) {
	area := &model.Area{}
	query := `SELECT * FROM areas WHERE id = $1`

	err := r.db.Get(area, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrAreaNotFound
	}

	return area, err
}

func (r *areaRepository) Areas() ([]*model.Area, error) {
	var areas []*model.Area
	query := `SELECT * FROM areas ORDER BY position ASC, LOWER(name) ASC`

	err := r.db.Select(&areas, query)
	if err != nil {
		return nil, err
	}

	return areas, nil
}

func (r *areaRepository) Update(area *model.Area) error {
	query := `UPDATE areas SET name = $1, color = $2, position = $3, updated_at = $4 WHERE id = $5`

	result, err := r.db.Exec(query, area.Name, area.Color, area.Position, area.UpdatedAt, area.ID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrAreaNotFound)
}

// Delete removes the area and detaches its goals and habits in one transaction.
func (r *areaRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, query := range []string{
		`UPDATE goals SET area_id = NULL WHERE area_id = $1`,
		`UPDATE habits SET area_id = NULL WHERE area_id = $1`,
	} {
		if _, err := tx.Exec(query, id); err != nil {
			return err
		}
	}

	result, err := tx.Exec(`DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err := expectRows(result, ErrAreaNotFound); err != nil {
		return err
	}

	return tx.Commit()
}
