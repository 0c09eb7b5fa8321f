package model

import (
	"time"
)

const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

type Article struct {
	ID          string     `db:"id" json:"id"`
	Slug        string     `db:"slug" json:"slug"`
	Title       string     `db:"title" json:"title"`
	Excerpt     string     `db:"excerpt" json:"excerpt"`
	Body        string     `db:"body" json:"body"`
	BodyHTML    string     `db:"body_html" json:"body_html"`
	CoverImage  string     `db:"cover_image" json:"cover_image"`
	Author      string     `db:"author" json:"author"`
	Status      string     `db:"status" json:"status"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// Computed fields (not in database)
	ReadTime int `db:"-" json:"read_time"`
}

func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}
