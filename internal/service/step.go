package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/validation"
)

// ProgressRecalculator refreshes a goal after one of its inputs changed.
type ProgressRecalculator interface {
	RecalculateIfLinked(goalID *string)
}

type StepInput struct {
	GoalID     *string    `json:"goal_id"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes"`
	Recurrence string     `json:"recurrence"`
	DueDate    *time.Time `json:"due_date"`
	Position   int        `json:"position"`
}

type StepService struct {
	repo     repository.StepRepository
	goalRepo repository.GoalRepository
	progress ProgressRecalculator
	loc      *time.Location
}

func NewStepService(
	repo repository.StepRepository,
	goalRepo repository.GoalRepository,
	progress ProgressRecalculator,
	loc *time.Location,
) *StepService {
	if loc == nil {
		loc = time.UTC
	}
	return &StepService{
		repo:     repo,
		goalRepo: goalRepo,
		progress: progress,
		loc:      loc,
	}
}

func (s *StepService) validate(input *StepInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Recurrence == "" {
		input.Recurrence = model.RecurrenceNone
	}

	v := &validation.Errors{}
	v.Check("title", validation.ValidateTitle(input.Title))
	v.MaxLength("notes", input.Notes, 5000)
	v.OneOf("recurrence", input.Recurrence, model.ValidRecurrence(input.Recurrence))
	if input.GoalID != nil && *input.GoalID == "" {
		input.GoalID = nil
	}
	if input.GoalID != nil {
		_, err := s.goalRepo.ByID(*input.GoalID)
		if errors.Is(err, repository.ErrGoalNotFound) {
			v.Add("goal_id", "unknown goal")
		} else if err != nil {
			return fmt.Errorf("failed to load goal: %w", err)
		}
	}
	if input.DueDate != nil {
		t := input.DueDate.UTC()
		input.DueDate = &t
	}

	return v.Err()
}

func (s *StepService) Create(input StepInput) (*model.Step, error) {
	err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	step := &model.Step{
		ID:         uuid.New().String(),
		GoalID:     input.GoalID,
		Title:      input.Title,
		Notes:      input.Notes,
		Recurrence: input.Recurrence,
		DueDate:    input.DueDate,
		Position:   input.Position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.repo.Create(step)
	if err != nil {
		return nil, fmt.Errorf("failed to create step: %w", err)
	}

	s.progress.RecalculateIfLinked(step.GoalID)
	return step, nil
}

func (s *StepService) ByID(stepID string) (*model.Step, error) {
	return s.repo.ByID(stepID)
}

func (s *StepService) Steps(filter repository.StepFilter) ([]*model.Step, error) {
	return s.repo.Steps(filter)
}

// DueToday returns open steps due before the end of today.
func (s *StepService) DueToday(now time.Time) ([]*model.Step, error) {
	local := now.In(s.loc)
	endOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1).UTC()
	open := false
	return s.repo.Steps(repository.StepFilter{Completed: &open, DueBefore: &endOfDay})
}

func (s *StepService) Update(stepID string, input StepInput) (*model.Step, error) {
	err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	step, err := s.repo.ByID(stepID)
	if err != nil {
		return nil, err
	}
	previousGoal := step.GoalID

	step.GoalID = input.GoalID
	step.Title = input.Title
	step.Notes = input.Notes
	step.Recurrence = input.Recurrence
	step.DueDate = input.DueDate
	step.Position = input.Position
	step.UpdatedAt = time.Now().UTC()

	err = s.repo.Update(step)
	if err != nil {
		return nil, err
	}

	s.progress.RecalculateIfLinked(step.GoalID)
	if !sameGoal(previousGoal, step.GoalID) {
		s.progress.RecalculateIfLinked(previousGoal)
	}
	return step, nil
}

func (s *StepService) Complete(stepID string) (*model.Step, error) {
	return s.setCompleted(stepID, true)
}

func (s *StepService) Uncomplete(stepID string) (*model.Step, error) {
	return s.setCompleted(stepID, false)
}

func (s *StepService) setCompleted(stepID string, done bool) (*model.Step, error) {
	step, err := s.repo.ByID(stepID)
	if err != nil {
		return nil, err
	}
	if step.Completed == done {
		return step, nil
	}

	var completedAt *time.Time
	if done {
		now := time.Now().UTC()
		completedAt = &now
	}

	err = s.repo.SetCompleted(stepID, completedAt)
	if err != nil {
		return nil, err
	}

	step.Completed = done
	step.CompletedAt = completedAt
	s.progress.RecalculateIfLinked(step.GoalID)
	return step, nil
}

func (s *StepService) Delete(stepID string) error {
	step, err := s.repo.ByID(stepID)
	if err != nil {
		return err
	}

	err = s.repo.Delete(stepID)
	if err != nil {
		return err
	}

	s.progress.RecalculateIfLinked(step.GoalID)
	return nil
}

// ResetRecurring reopens completed recurring steps whose period has ended,
// so daily steps are open again the next day. It returns how many were reset.
func (s *StepService) ResetRecurring(now time.Time) (int, error) {
	steps, err := s.repo.CompletedRecurring()
	if err != nil {
		return 0, fmt.Errorf("failed to load recurring steps: %w", err)
	}

	reset := 0
	goals := make(map[string]bool)
	for _, step := range steps {
		end, ok := step.PeriodEnd(s.loc)
		if !ok || now.Before(end) {
			continue
		}

		err := s.repo.SetCompleted(step.ID, nil)
		if err != nil {
			slog.Error("failed to reset recurring step", "error", err, "step_id", step.ID)
			continue
		}
		reset++
		if step.GoalID != nil {
			goals[*step.GoalID] = true
		}
	}

	for goalID := range goals {
		s.progress.RecalculateIfLinked(&goalID)
	}

	if reset > 0 {
		slog.Info("recurring steps reset", "count", reset)
	}
	return reset, nil
}

func sameGoal(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
