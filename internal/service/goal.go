package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/lifeos/internal/metrics"
	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/progress"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/validation"
)

var (
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrProgressDerived = errors.New("progress is derived from steps and metrics")
)

type GoalInput struct {
	AreaID      *string    `json:"area_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Progress    *int       `json:"progress"`
	TargetDate  *time.Time `json:"target_date"`
}

type GoalExport struct {
	ExportedAt time.Time           `json:"exported_at"`
	Goals      []*model.GoalDetail `json:"goals"`
	Orphans    GoalExportOrphans   `json:"unlinked"`
}

type GoalExportOrphans struct {
	Steps   []*model.Step   `json:"steps"`
	Metrics []*model.Metric `json:"metrics"`
}

type GoalService struct {
	repo       repository.GoalRepository
	stepRepo   repository.StepRepository
	metricRepo repository.MetricRepository
	areaRepo   repository.AreaRepository
}

func NewGoalService(
	repo repository.GoalRepository,
	stepRepo repository.StepRepository,
	metricRepo repository.MetricRepository,
	areaRepo repository.AreaRepository,
) *GoalService {
	return &GoalService{
		repo:       repo,
		stepRepo:   stepRepo,
		metricRepo: metricRepo,
		areaRepo:   areaRepo,
	}
}

func (s *GoalService) validate(input *GoalInput) error {
	input.Title = strings.TrimSpace(input.Title)

	v := &validation.Errors{}
	v.Check("title", validation.ValidateTitle(input.Title))
	v.MaxLength("description", input.Description, 5000)
	if input.Status != "" {
		v.OneOf("status", input.Status, model.ValidGoalStatus(input.Status))
	}
	if input.Progress != nil {
		v.Range("progress", *input.Progress, 0, 100)
	}
	if input.AreaID != nil && *input.AreaID != "" {
		_, err := s.areaRepo.ByID(*input.AreaID)
		if errors.Is(err, repository.ErrAreaNotFound) {
			v.Add("area_id", "unknown area")
		} else if err != nil {
			return fmt.Errorf("failed to load area: %w", err)
		}
	}
	if input.AreaID != nil && *input.AreaID == "" {
		input.AreaID = nil
	}
	if input.TargetDate != nil {
		t := input.TargetDate.UTC()
		input.TargetDate = &t
	}

	return v.Err()
}

func (s *GoalService) Create(input GoalInput) (*model.Goal, error) {
	err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		AreaID:      input.AreaID,
		Title:       input.Title,
		Description: input.Description,
		Status:      model.GoalStatusActive,
		TargetDate:  input.TargetDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Status != "" {
		goal.Status = input.Status
	}
	if input.Progress != nil {
		goal.Progress = *input.Progress
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ByID(goalID string) (*model.Goal, error) {
	return s.repo.ByID(goalID)
}

func (s *GoalService) Goals(filter repository.GoalFilter) ([]*model.Goal, error) {
	if filter.Status != "" && !model.ValidGoalStatus(filter.Status) {
		return nil, validation.Field("status", fmt.Sprintf("invalid value %q", filter.Status))
	}
	return s.repo.Goals(filter)
}

// Goal returns the goal together with its steps and metrics.
func (s *GoalService) Goal(goalID string) (*model.GoalDetail, error) {
	goal, err := s.repo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	steps, err := s.stepRepo.StepsByGoal(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load steps: %w", err)
	}

	goalMetrics, err := s.metricRepo.MetricsByGoal(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}

	return &model.GoalDetail{Goal: goal, Steps: nonNil(steps), Metrics: nonNil(goalMetrics)}, nil
}

// Update replaces the editable fields. Progress is only taken over when the
// goal has nothing to derive it from.
func (s *GoalService) Update(goalID string, input GoalInput) (*model.Goal, error) {
	err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	goal, err := s.repo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	if input.Progress != nil {
		steps, goalMetrics, err := s.components(goalID)
		if err != nil {
			return nil, err
		}
		if len(steps) > 0 || len(goalMetrics) > 0 {
			return nil, ErrProgressDerived
		}
	}

	goal.AreaID = input.AreaID
	goal.Title = input.Title
	goal.Description = input.Description
	goal.TargetDate = input.TargetDate
	if input.Status != "" {
		goal.Status = input.Status
	}
	goal.UpdatedAt = time.Now().UTC()

	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	if input.Progress != nil {
		return s.SetProgress(goalID, *input.Progress)
	}

	return goal, nil
}

// SetProgress stores a manual percentage for goals without steps or metrics.
func (s *GoalService) SetProgress(goalID string, pct int) (*model.Goal, error) {
	if pct < 0 || pct > 100 {
		return nil, ErrInvalidProgress
	}

	goal, err := s.repo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	steps, goalMetrics, err := s.components(goalID)
	if err != nil {
		return nil, err
	}
	if len(steps) > 0 || len(goalMetrics) > 0 {
		return nil, ErrProgressDerived
	}

	return s.applyProgress(goal, pct)
}

// Recalculate derives the goal's progress from its steps and metrics and
// persists it. Goals without either keep their manual progress.
func (s *GoalService) Recalculate(goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	steps, goalMetrics, err := s.components(goalID)
	if err != nil {
		return nil, err
	}

	pct, ok := progress.Calculate(steps, goalMetrics)
	if !ok {
		metrics.RecordRecalculation("manual")
		return goal, nil
	}

	if pct == goal.Progress && goal.Status == nextStatus(goal.Status, pct) {
		metrics.RecordRecalculation("unchanged")
		return goal, nil
	}

	metrics.RecordRecalculation("changed")
	return s.applyProgress(goal, pct)
}

func (s *GoalService) components(goalID string) ([]*model.Step, []*model.Metric, error) {
	steps, err := s.stepRepo.StepsByGoal(goalID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load steps: %w", err)
	}

	goalMetrics, err := s.metricRepo.MetricsByGoal(goalID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load metrics: %w", err)
	}

	return steps, goalMetrics, nil
}

func (s *GoalService) applyProgress(goal *model.Goal, pct int) (*model.Goal, error) {
	pct = progress.Clamp(pct)
	status := nextStatus(goal.Status, pct)

	err := s.repo.UpdateProgress(goal.ID, pct, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	if status != goal.Status {
		slog.Info("goal status changed", "goal_id", goal.ID, "from", goal.Status, "to", status, "progress", pct)
	}

	goal.Progress = pct
	goal.Status = status
	goal.UpdatedAt = time.Now().UTC()
	return goal, nil
}

// nextStatus flips active and completed around 100%. Archived goals stay archived.
func nextStatus(current string, pct int) string {
	switch {
	case current == model.GoalStatusActive && pct >= 100:
		return model.GoalStatusCompleted
	case current == model.GoalStatusCompleted && pct < 100:
		return model.GoalStatusActive
	}
	return current
}

// RecalculateIfLinked recalculates the goal when goalID is set, logging failures.
func (s *GoalService) RecalculateIfLinked(goalID *string) {
	if goalID == nil || *goalID == "" {
		return
	}
	_, err := s.Recalculate(*goalID)
	if err != nil && !errors.Is(err, repository.ErrGoalNotFound) {
		slog.Error("failed to recalculate goal progress", "error", err, "goal_id", *goalID)
	}
}

// Delete removes the goal. cascade decides whether its steps and metrics are
// deleted with it or kept without a goal.
func (s *GoalService) Delete(goalID string, cascade bool) error {
	err := s.repo.Delete(goalID, cascade)
	if err != nil {
		return err
	}

	slog.Info("goal deleted", "goal_id", goalID, "cascade", cascade)
	return nil
}

// Export returns every goal with its steps and metrics, plus the unlinked ones.
func (s *GoalService) Export() (*GoalExport, error) {
	goals, err := s.repo.Goals(repository.GoalFilter{SortBy: repository.GoalSortTitle})
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	allSteps, err := s.stepRepo.Steps(repository.StepFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load steps: %w", err)
	}

	allMetrics, err := s.metricRepo.Metrics("")
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}

	export := &GoalExport{
		ExportedAt: time.Now().UTC(),
		Goals:      make([]*model.GoalDetail, 0, len(goals)),
		Orphans:    GoalExportOrphans{Steps: []*model.Step{}, Metrics: []*model.Metric{}},
	}

	details := make(map[string]*model.GoalDetail, len(goals))
	for _, g := range goals {
		d := &model.GoalDetail{Goal: g, Steps: []*model.Step{}, Metrics: []*model.Metric{}}
		details[g.ID] = d
		export.Goals = append(export.Goals, d)
	}

	for _, st := range allSteps {
		if st.GoalID != nil && details[*st.GoalID] != nil {
			details[*st.GoalID].Steps = append(details[*st.GoalID].Steps, st)
			continue
		}
		export.Orphans.Steps = append(export.Orphans.Steps, st)
	}

	for _, m := range allMetrics {
		if m.GoalID != nil && details[*m.GoalID] != nil {
			details[*m.GoalID].Metrics = append(details[*m.GoalID].Metrics, m)
			continue
		}
		export.Orphans.Metrics = append(export.Orphans.Metrics, m)
	}

	return export, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Counts returns the number of goals per status.
func (s *GoalService) Counts() (map[string]int, error) {
	counts := make(map[string]int, 3)
	for _, status := range []string{model.GoalStatusActive, model.GoalStatusCompleted, model.GoalStatusArchived} {
		n, err := s.repo.CountByStatus(status)
		if err != nil {
			return nil, fmt.Errorf("failed to count goals: %w", err)
		}
		counts[status] = n
	}
	return counts, nil
}
