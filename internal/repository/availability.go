package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

var (
	ErrAvailabilityNotFound = errors.New("availability block not found")
)

type AvailabilityRepository interface {
	Create(block *model.AvailabilityBlock) error
	Blocks() ([]*model.AvailabilityBlock, error)
	Delete(blockID string) error
}

type availabilityRepository struct {
	db *sqlx.DB
}

func NewAvailabilityRepository(db *sqlx.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) Create(block *model.AvailabilityBlock) error {
	query := `INSERT INTO availability_blocks (id, weekday, start_minute, end_minute, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, block.ID, block.Weekday, block.StartMinute, block.EndMinute, block.CreatedAt)
	return err
}

func (r *availabilityRepository) Blocks() ([]*model.AvailabilityBlock, error) {
	var blocks []*model.AvailabilityBlock
	query := `SELECT * FROM availability_blocks ORDER BY weekday ASC, start_minute ASC`

	err := r.db.Select(&blocks, query)
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

func (r *availabilityRepository) Delete(blockID string) error {
	result, err := r.db.Exec(`DELETE FROM availability_blocks WHERE id = $1`, blockID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrAvailabilityNotFound)
}
