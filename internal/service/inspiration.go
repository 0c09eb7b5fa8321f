package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/validation"
)

type InspirationInput struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Creator     string `json:"creator"`
	URL         string `json:"url"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Position    *int   `json:"position"`
	Published   *bool  `json:"published"`
}

type InspirationService struct {
	repo repository.InspirationRepository
}

func NewInspirationService(repo repository.InspirationRepository) *InspirationService {
	return &InspirationService{repo: repo}
}

func validateInspiration(input *InspirationInput) error {
	input.Kind = strings.ToLower(strings.TrimSpace(input.Kind))
	input.Title = strings.TrimSpace(input.Title)
	input.Creator = strings.TrimSpace(input.Creator)
	input.URL = strings.TrimSpace(input.URL)
	input.ImageURL = strings.TrimSpace(input.ImageURL)

	v := &validation.Errors{}
	v.OneOf("kind", input.Kind, model.ValidInspirationKind(input.Kind))
	v.Check("title", validation.ValidateTitle(input.Title))
	v.MaxLength("creator", input.Creator, 200)
	v.MaxLength("description", input.Description, 5000)
	if input.URL != "" && !validURL(input.URL) {
		v.Add("url", "must be an absolute http(s) URL")
	}
	if input.ImageURL != "" && !validURL(input.ImageURL) {
		v.Add("image_url", "must be an absolute http(s) URL")
	}
	if input.Position != nil && *input.Position < 0 {
		v.Add("position", "must not be negative")
	}
	return v.Err()
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *InspirationService) Create(input InspirationInput) (*model.Inspiration, error) {
	err := validateInspiration(&input)
	if err != nil {
		return nil, err
	}

	position := 0
	if input.Position != nil {
		position = *input.Position
	} else {
		position, err = s.repo.NextPosition()
		if err != nil {
			return nil, fmt.Errorf("failed to get next position: %w", err)
		}
	}

	now := time.Now().UTC()
	inspiration := &model.Inspiration{
		ID:          uuid.New().String(),
		Kind:        input.Kind,
		Title:       input.Title,
		Creator:     input.Creator,
		URL:         input.URL,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Position:    position,
		Published:   input.Published == nil || *input.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Create(inspiration)
	if err != nil {
		return nil, fmt.Errorf("failed to create inspiration: %w", err)
	}

	return inspiration, nil
}

func (s *InspirationService) ByID(id string) (*model.Inspiration, error) {
	return s.repo.ByID(id)
}

// Inspirations lists inspirations ordered by position. An empty kind lists all kinds.
func (s *InspirationService) Inspirations(kind string, publishedOnly bool) ([]*model.Inspiration, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != "" && !model.ValidInspirationKind(kind) {
		return nil, validation.Field("kind", fmt.Sprintf("invalid value %q", kind))
	}

	inspirations, err := s.repo.Inspirations(kind, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspirations: %w", err)
	}
	return nonNil(inspirations), nil
}

func (s *InspirationService) Update(id string, input InspirationInput) (*model.Inspiration, error) {
	inspiration, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}

	err = validateInspiration(&input)
	if err != nil {
		return nil, err
	}

	inspiration.Kind = input.Kind
	inspiration.Title = input.Title
	inspiration.Creator = input.Creator
	inspiration.URL = input.URL
	inspiration.Description = input.Description
	inspiration.ImageURL = input.ImageURL
	if input.Position != nil {
		inspiration.Position = *input.Position
	}
	if input.Published != nil {
		inspiration.Published = *input.Published
	}
	inspiration.UpdatedAt = time.Now().UTC()

	err = s.repo.Update(inspiration)
	if err != nil {
		return nil, fmt.Errorf("failed to update inspiration: %w", err)
	}

	return inspiration, nil
}

// Reorder assigns positions 0..n-1 in the given order.
func (s *InspirationService) Reorder(ids []string) error {
	if len(ids) == 0 {
		return validation.Field("ids", "is required")
	}
	err := s.repo.Reorder(ids)
	if errors.Is(err, repository.ErrUnknownID) {
		return validation.Field("ids", err.Error())
	}
	return err
}

func (s *InspirationService) Delete(id string) error {
	return s.repo.Delete(id)
}

// Upsert matches an existing inspiration by kind and title, case-insensitively.
func (s *InspirationService) Upsert(input InspirationInput) (*model.Inspiration, bool, error) {
	err := validateInspiration(&input)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.repo.ByTitle(input.Kind, input.Title)
	if errors.Is(err, repository.ErrInspirationNotFound) {
		inspiration, err := s.Create(input)
		return inspiration, err == nil, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load inspiration: %w", err)
	}

	inspiration, err := s.Update(existing.ID, input)
	return inspiration, false, err
}
