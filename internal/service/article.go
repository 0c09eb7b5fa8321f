package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/lifeos/internal/markdown"
	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/slug"
	"github.com/templui/lifeos/internal/validation"
)

const excerptLength = 200

type ArticleInput struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Excerpt    string `json:"excerpt"`
	Body       string `json:"body"`
	CoverImage string `json:"cover_image"`
	Author     string `json:"author"`
}

type ArticleService struct {
	repo   repository.ArticleRepository
	parser *markdown.Parser
	now    func() time.Time
}

func NewArticleService(repo repository.ArticleRepository) *ArticleService {
	return &ArticleService{
		repo:   repo,
		parser: markdown.NewParser(),
		now:    time.Now,
	}
}

func validateArticle(input *ArticleInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.TrimSpace(input.Slug)
	input.Excerpt = strings.TrimSpace(input.Excerpt)
	input.Author = strings.TrimSpace(input.Author)
	input.CoverImage = strings.TrimSpace(input.CoverImage)

	v := &validation.Errors{}
	v.Check("title", validation.ValidateTitle(input.Title))
	v.MaxLength("slug", input.Slug, 80)
	v.MaxLength("excerpt", input.Excerpt, 500)
	v.MaxLength("author", input.Author, 100)
	v.MaxLength("cover_image", input.CoverImage, 2000)
	if input.Slug != "" && slug.Make(input.Slug) != input.Slug {
		v.Add("slug", "may only contain lowercase letters, digits and dashes")
	}
	return v.Err()
}

// resolveSlug returns the explicit slug when it is free, otherwise derives a
// unique one from the title.
func (s *ArticleService) resolveSlug(input ArticleInput, articleID string) (string, error) {
	exists := func(candidate string) (bool, error) {
		return s.repo.SlugTaken(candidate, articleID)
	}

	if input.Slug != "" {
		taken, err := exists(input.Slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if taken {
			return "", validation.Field("slug", "is already in use")
		}
		return input.Slug, nil
	}

	unique, err := slug.Unique(slug.Make(input.Title), exists)
	if err != nil {
		return "", fmt.Errorf("failed to generate slug: %w", err)
	}
	return unique, nil
}

func (s *ArticleService) apply(article *model.Article, input ArticleInput) error {
	html, err := s.parser.Render(input.Body)
	if err != nil {
		return fmt.Errorf("failed to render article: %w", err)
	}

	article.Title = input.Title
	article.Body = input.Body
	article.BodyHTML = html
	article.CoverImage = input.CoverImage
	article.Author = input.Author
	article.Excerpt = input.Excerpt
	if article.Excerpt == "" {
		article.Excerpt = markdown.Excerpt(input.Body, excerptLength)
	}
	return nil
}

func (s *ArticleService) Create(input ArticleInput) (*model.Article, error) {
	err := validateArticle(&input)
	if err != nil {
		return nil, err
	}

	articleSlug, err := s.resolveSlug(input, "")
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	article := &model.Article{
		ID:        uuid.New().String(),
		Slug:      articleSlug,
		Status:    model.ArticleStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.apply(article, input)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(article)
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	return withReadTime(article), nil
}

func (s *ArticleService) ByID(id string) (*model.Article, error) {
	article, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	return withReadTime(article), nil
}

// Published returns a published article by slug. Drafts are reported as not found.
func (s *ArticleService) Published(articleSlug string) (*model.Article, error) {
	article, err := s.repo.PublishedBySlug(articleSlug)
	if err != nil {
		return nil, err
	}
	return withReadTime(article), nil
}

func (s *ArticleService) Articles(publishedOnly bool) ([]*model.Article, error) {
	articles, err := s.repo.Articles(publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	for _, article := range articles {
		withReadTime(article)
	}
	return nonNil(articles), nil
}

func (s *ArticleService) Update(id string, input ArticleInput) (*model.Article, error) {
	article, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}

	err = validateArticle(&input)
	if err != nil {
		return nil, err
	}

	// Keep the current slug unless a new one is requested.
	if input.Slug == "" {
		input.Slug = article.Slug
	}
	article.Slug, err = s.resolveSlug(input, article.ID)
	if err != nil {
		return nil, err
	}

	err = s.apply(article, input)
	if err != nil {
		return nil, err
	}
	article.UpdatedAt = s.now().UTC()

	err = s.repo.Update(article)
	if err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	return withReadTime(article), nil
}

// Publish makes the article public. PublishedAt is only set the first time.
func (s *ArticleService) Publish(id string) (*model.Article, error) {
	return s.setStatus(id, model.ArticleStatusPublished, nil)
}

func (s *ArticleService) Unpublish(id string) (*model.Article, error) {
	return s.setStatus(id, model.ArticleStatusDraft, nil)
}

func (s *ArticleService) setStatus(id, status string, publishedAt *time.Time) (*model.Article, error) {
	article, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	article.Status = status
	if status == model.ArticleStatusPublished && article.PublishedAt == nil {
		if publishedAt == nil {
			publishedAt = &now
		}
		article.PublishedAt = publishedAt
	}
	article.UpdatedAt = now

	err = s.repo.Update(article)
	if err != nil {
		return nil, fmt.Errorf("failed to update article status: %w", err)
	}

	return withReadTime(article), nil
}

func (s *ArticleService) Delete(id string) error {
	return s.repo.Delete(id)
}

// Upsert creates or updates the article identified by its slug. It is used
// by the markdown importer, where the slug in frontmatter (or the file name)
// is the stable key. publishedAt is only applied when the article has never
// been published.
func (s *ArticleService) Upsert(input ArticleInput, draft bool, publishedAt *time.Time) (*model.Article, bool, error) {
	key := input.Slug
	if strings.TrimSpace(key) == "" {
		key = input.Title
	}
	input.Slug = slug.Stable(key)
	if input.Slug == "" {
		return nil, false, validation.Field("slug", "cannot be derived from an empty title")
	}

	existing, err := s.repo.BySlug(input.Slug)
	if err != nil && !errors.Is(err, repository.ErrArticleNotFound) {
		return nil, false, fmt.Errorf("failed to load article: %w", err)
	}

	var article *model.Article
	created := existing == nil
	if created {
		article, err = s.Create(input)
	} else {
		article, err = s.Update(existing.ID, input)
	}
	if err != nil {
		return nil, false, err
	}

	status := model.ArticleStatusPublished
	if draft {
		status = model.ArticleStatusDraft
	}
	if status != article.Status || (!draft && article.PublishedAt == nil) {
		article, err = s.setStatus(article.ID, status, publishedAt)
		if err != nil {
			return nil, false, err
		}
	}

	return article, created, nil
}

func withReadTime(article *model.Article) *model.Article {
	article.ReadTime = markdown.ReadTime(article.Body)
	return article
}
