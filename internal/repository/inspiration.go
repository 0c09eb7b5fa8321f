package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

var (
	ErrInspirationNotFound = errors.New("inspiration not found")
)

type InspirationRepository interface {
	Create(inspiration *model.Inspiration) error
	ByID(inspirationID string) (*model.Inspiration, error)
	ByTitle(kind, title string) (*model.Inspiration, error)
	Inspirations(kind string, publishedOnly bool) ([]*model.Inspiration, error)
	NextPosition() (int, error)
	Update(inspiration *model.Inspiration) error
	Reorder(ids []string) error
	Delete(inspirationID string) error
}

type inspirationRepository struct {
	db *sqlx.DB
}

func NewInspirationRepository(db *sqlx.DB) InspirationRepository {
	return &inspirationRepository{db: db}
}

func (r *inspirationRepository) Create(inspiration *model.Inspiration) error {
	query := `INSERT INTO inspirations (id, kind, title, creator, url, description, image_url, position, published, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		inspiration.ID,
		inspiration.Kind,
		inspiration.Title,
		inspiration.Creator,
		inspiration.URL,
		inspiration.Description,
		inspiration.ImageURL,
		inspiration.Position,
		inspiration.Published,
		inspiration.CreatedAt,
		inspiration.UpdatedAt,
	)

	return err
}

func (r *inspirationRepository) ByID(inspirationID string) (*model.Inspiration, error) {
	inspiration := &model.Inspiration{}
	query := `SELECT * FROM inspirations WHERE id = $1`

	err := r.db.Get(inspiration, query, inspirationID)
	if err == sql.ErrNoRows {
		return nil, ErrInspirationNotFound
	}

	return inspiration, err
}

func (r *inspirationRepository) ByTitle(kind, title string) (*model.Inspiration, error) {
	inspiration := &model.Inspiration{}
	query := `SELECT * FROM inspirations WHERE kind = $1 AND LOWER(title) = LOWER($2) LIMIT 1`

	err := r.db.Get(inspiration, query, kind, title)
	if err == sql.ErrNoRows {
		return nil, ErrInspirationNotFound
	}

	return inspiration, err
}

func (r *inspirationRepository) Inspirations(kind string, publishedOnly bool) ([]*model.Inspiration, error) {
	var inspirations []*model.Inspiration
	query := `SELECT * FROM inspirations
	          WHERE ($1 = '' OR kind = $1) AND ($2 = false OR published = true)
	          ORDER BY position ASC, created_at ASC`

	err := r.db.Select(&inspirations, query, kind, publishedOnly)
	if err != nil {
		return nil, err
	}

	return inspirations, nil
}

func (r *inspirationRepository) NextPosition() (int, error) {
	var next int
	err := r.db.QueryRow(`SELECT COALESCE(MAX(position) + 1, 0) FROM inspirations`).Scan(&next)
	return next, err
}

func (r *inspirationRepository) Update(inspiration *model.Inspiration) error {
	query := `UPDATE inspirations
	          SET kind = $1, title = $2, creator = $3, url = $4, description = $5, image_url = $6, position = $7,
	              published = $8, updated_at = $9
	          WHERE id = $10`

	result, err := r.db.Exec(query,
		inspiration.Kind,
		inspiration.Title,
		inspiration.Creator,
		inspiration.URL,
		inspiration.Description,
		inspiration.ImageURL,
		inspiration.Position,
		inspiration.Published,
		inspiration.UpdatedAt,
		inspiration.ID,
	)
	if err != nil {
		return err
	}

	return expectRows(result, ErrInspirationNotFound)
}

func (r *inspirationRepository) Reorder(ids []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := reorder(tx, "inspirations", ids); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *inspirationRepository) Delete(inspirationID string) error {
	result, err := r.db.Exec(`DELETE FROM inspirations WHERE id = $1`, inspirationID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrInspirationNotFound)
}
