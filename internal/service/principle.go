package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/validation"
)

type PrincipleInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type PrincipleService struct {
	repo repository.PrincipleRepository
}

func NewPrincipleService(repo repository.PrincipleRepository) *PrincipleService {
	return &PrincipleService{repo: repo}
}

func validatePrinciple(input *PrincipleInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Body = strings.TrimSpace(input.Body)

	v := &validation.Errors{}
	v.Check("title", validation.ValidateTitle(input.Title))
	v.MaxLength("body", input.Body, 5000)
	return v.Err()
}

// Create appends the principle at the end of the list.
func (s *PrincipleService) Create(input PrincipleInput) (*model.Principle, error) {
	err := validatePrinciple(&input)
	if err != nil {
		return nil, err
	}

	position, err := s.repo.NextPosition()
	if err != nil {
		return nil, fmt.Errorf("failed to get next position: %w", err)
	}

	now := time.Now().UTC()
	principle := &model.Principle{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Body:      input.Body,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.Create(principle)
	if err != nil {
		return nil, fmt.Errorf("failed to create principle: %w", err)
	}

	return principle, nil
}

func (s *PrincipleService) ByID(id string) (*model.Principle, error) {
	return s.repo.ByID(id)
}

func (s *PrincipleService) Principles() ([]*model.Principle, error) {
	principles, err := s.repo.Principles()
	if err != nil {
		return nil, fmt.Errorf("failed to list principles: %w", err)
	}
	return nonNil(principles), nil
}

func (s *PrincipleService) Update(id string, input PrincipleInput) (*model.Principle, error) {
	principle, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}

	err = validatePrinciple(&input)
	if err != nil {
		return nil, err
	}

	principle.Title = input.Title
	principle.Body = input.Body
	principle.UpdatedAt = time.Now().UTC()

	err = s.repo.Update(principle)
	if err != nil {
		return nil, fmt.Errorf("failed to update principle: %w", err)
	}

	return principle, nil
}

func (s *PrincipleService) Reorder(ids []string) error {
	if len(ids) == 0 {
		return validation.Field("ids", "is required")
	}
	err := s.repo.Reorder(ids)
	if errors.Is(err, repository.ErrUnknownID) {
		return validation.Field("ids", err.Error())
	}
	return err
}

func (s *PrincipleService) Delete(id string) error {
	return s.repo.Delete(id)
}
