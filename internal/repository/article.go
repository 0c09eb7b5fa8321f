package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

var (
	ErrArticleNotFound = errors.New("article not found")
)

type ArticleRepository interface {
	Create(article *model.Article) error
	ByID(articleID string) (*model.Article, error)
	BySlug(slug string) (*model.Article, error)
	PublishedBySlug(slug string) (*model.Article, error)
	Articles(publishedOnly bool) ([]*model.Article, error)
	SlugTaken(slug, exceptID string) (bool, error)
	Update(article *model.Article) error
	Delete(articleID string) error
}

type articleRepository struct {
	db *sqlx.DB
}

func NewArticleRepository(db *sqlx.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(article *model.Article) error {
	query := `INSERT INTO articles (id, slug, title, excerpt, body, body_html, cover_image, author, status, published_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(query,
		article.ID,
		article.Slug,
		article.Title,
		article.Excerpt,
		article.Body,
		article.BodyHTML,
		article.CoverImage,
		article.Author,
		article.Status,
		article.PublishedAt,
		article.CreatedAt,
		article.UpdatedAt,
	)

	return err
}

func (r *articleRepository) ByID(articleID string) (*model.Article, error) {
	article := &model.Article{}
	query := `SELECT * FROM articles WHERE id = $1`

	err := r.db.Get(article, query, articleID)
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}

	return article, err
}

func (r *articleRepository) BySlug(slug string) (*model.Article, error) {
	article := &model.Article{}
	query := `SELECT * FROM articles WHERE slug = $1`

	err := r.db.Get(article, query, slug)
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}

	return article, err
}

func (r *articleRepository) PublishedBySlug(slug string) (*model.Article, error) {
	article := &model.Article{}
	query := `SELECT * FROM articles WHERE slug = $1 AND status = $2`

	err := r.db.Get(article, query, slug, model.ArticleStatusPublished)
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}

	return article, err
}

func (r *articleRepository) Articles(publishedOnly bool) ([]*model.Article, error) {
	var articles []*model.Article

	query := `SELECT * FROM articles ORDER BY updated_at DESC`
	args := []any{}
	if publishedOnly {
		query = `SELECT * FROM articles WHERE status = $1 ORDER BY published_at DESC`
		args = append(args, model.ArticleStatusPublished)
	}

	err := r.db.Select(&articles, query, args...)
	if err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *articleRepository) SlugTaken(slug, exceptID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM articles WHERE slug = $1 AND id <> $2`
	err := r.db.QueryRow(query, slug, exceptID).Scan(&count)
	return count > 0, err
}

func (r *articleRepository) Update(article *model.Article) error {
	query := `UPDATE articles
	          SET slug = $1, title = $2, excerpt = $3, body = $4, body_html = $5, cover_image = $6, author = $7,
	              status = $8, published_at = $9, updated_at = $10
	          WHERE id = $11`

	result, err := r.db.Exec(query,
		article.Slug,
		article.Title,
		article.Excerpt,
		article.Body,
		article.BodyHTML,
		article.CoverImage,
		article.Author,
		article.Status,
		article.PublishedAt,
		article.UpdatedAt,
		article.ID,
	)
	if err != nil {
		return err
	}

	return expectRows(result, ErrArticleNotFound)
}

func (r *articleRepository) Delete(articleID string) error {
	result, err := r.db.Exec(`DELETE FROM articles WHERE id = $1`, articleID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrArticleNotFound)
}
