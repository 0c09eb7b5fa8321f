package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/validation"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type AreaInput struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
}

type AreaService struct {
	repo repository.AreaRepository
}

func NewAreaService(repo repository.AreaRepository) *AreaService {
	return &AreaService{repo: repo}
}

func validateArea(input *AreaInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Color = strings.TrimSpace(input.Color)

	v := &validation.Errors{}
	v.Required("name", input.Name)
	v.MaxLength("name", input.Name, 100)
	if input.Color != "" && !colorPattern.MatchString(input.Color) {
		v.Add("color", "must be a hex color like #3366ff")
	}
	if input.Position < 0 {
		v.Add("position", "must not be negative")
	}
	return v.Err()
}

func (s *AreaService) Create(input AreaInput) (*model.Area, error) {
	err := validateArea(&input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	area := &model.Area{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Color:     strings.ToLower(input.Color),
		Position:  input.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.Create(area)
	if err != nil {
		return nil, fmt.Errorf("failed to create area: %w", err)
	}

	return area, nil
}

func (s *AreaService) ByID(id string) (*model.Area, error) {
	return s.repo.ByID(id)
}

func (s *AreaService) Areas() ([]*model.Area, error) {
	areas, err := s.repo.Areas()
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	return nonNil(areas), nil
}

func (s *AreaService) Update(id string, input AreaInput) (*model.Area, error) {
	area, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}

	err = validateArea(&input)
	if err != nil {
		return nil, err
	}

	area.Name = input.Name
	area.Color = strings.ToLower(input.Color)
	area.Position = input.Position
	area.UpdatedAt = time.Now().UTC()

	err = s.repo.Update(area)
	if err != nil {
		return nil, fmt.Errorf("failed to update area: %w", err)
	}

	return area, nil
}

// Delete removes the area. Goals and habits in it keep existing without an area.
func (s *AreaService) Delete(id string) error {
	return s.repo.Delete(id)
}
