package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

var (
	ErrPrincipleNotFound = errors.New("principle not found")
)

type PrincipleRepository interface {
	Create(principle *model.Principle) error
	ByID(principleID string) (*model.Principle, error)
	Principles() ([]*model.Principle, error)
	NextPosition() (int, error)
	Update(principle *model.Principle) error
	Reorder(ids []string) error
	Delete(principleID string) error
}

type principleRepository struct {
	db *sqlx.DB
}

func NewPrincipleRepository(db *sqlx.DB) PrincipleRepository {
	return &principleRepository{db: db}
}

func (r *principleRepository) Create(principle *model.Principle) error {
	query := `INSERT INTO principles (id, title, body, position, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		principle.ID,
		principle.Title,
		principle.Body,
		principle.Position,
		principle.CreatedAt,
		principle.UpdatedAt,
	)

	return err
}

func (r *principleRepository) ByID(principleID string) (*model.Principle, error) {
	principle := &model.Principle{}
	query := `SELECT * FROM principles WHERE id = $1`

	err := r.db.Get(principle, query, principleID)
	if err == sql.ErrNoRows {
		return nil, ErrPrincipleNotFound
	}

	return principle, err
}

func (r *principleRepository) Principles() ([]*model.Principle, error) {
	var principles []*model.Principle
	query := `SELECT * FROM principles ORDER BY position ASC, created_at ASC`

	err := r.db.Select(&principles, query)
	if err != nil {
		return nil, err
	}

	return principles, nil
}

func (r *principleRepository) NextPosition() (int, error) {
	var next int
	err := r.db.QueryRow(`SELECT COALESCE(MAX(position) + 1, 0) FROM principles`).Scan(&next)
	return next, err
}

func (r *principleRepository) Update(principle *model.Principle) error {
	query := `UPDATE principles SET title = $1, body = $2, position = $3, updated_at = $4 WHERE id = $5`

	result, err := r.db.Exec(query, principle.Title, principle.Body, principle.Position, principle.UpdatedAt, principle.ID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrPrincipleNotFound)
}

func (r *principleRepository) Reorder(ids []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := reorder(tx, "principles", ids); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *principleRepository) Delete(principleID string) error {
	result, err := r.db.Exec(`DELETE FROM principles WHERE id = $1`, principleID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrPrincipleNotFound)
}
