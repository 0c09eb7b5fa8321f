package model

import "time"

const (
	InspirationKindArticle = "article"
	InspirationKindVideo   = "video"
	InspirationKindBook    = "book"
)

// Inspiration is a curated reference shown in the content library.
type Inspiration struct {
	ID          string    `db:"id" json:"id"`
	Kind        string    `db:"kind" json:"kind"`
	Title       string    `db:"title" json:"title"`
	Creator     string    `db:"creator" json:"creator"`
	URL         string    `db:"url" json:"url"`
	Description string    `db:"description" json:"description"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	Position    int       `db:"position" json:"position"`
	Published   bool      `db:"published" json:"published"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func ValidInspirationKind(kind string) bool {
	switch kind {
	case InspirationKindArticle, InspirationKindVideo, InspirationKindBook:
		return true
	}
	return false
}
