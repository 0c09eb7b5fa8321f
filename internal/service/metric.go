package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/progress"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/units"
	"github.com/templui/lifeos/internal/validation"
)

type MetricInput struct {
	GoalID      *string `json:"goal_id"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Aggregation string  `json:"aggregation"`
	StartValue  float64 `json:"start_value"`
	TargetValue float64 `json:"target_value"`
}

type EntryInput struct {
	Value      *float64   `json:"value"`
	Unit       string     `json:"unit"`
	Note       string     `json:"note"`
	RecordedAt *time.Time `json:"recorded_at"`
}

type MetricService struct {
	repo     repository.MetricRepository
	goalRepo repository.GoalRepository
	progress ProgressRecalculator
}

func NewMetricService(repo repository.MetricRepository, goalRepo repository.GoalRepository, progress ProgressRecalculator) *MetricService {
	return &MetricService{repo: repo, goalRepo: goalRepo, progress: progress}
}

func (s *MetricService) validate(input *MetricInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Aggregation == "" {
		input.Aggregation = model.AggregationLatest
	}
	if input.GoalID != nil && *input.GoalID == "" {
		input.GoalID = nil
	}

	v := &validation.Errors{}
	v.Check("name", validation.ValidateTitle(input.Name))
	v.OneOf("aggregation", input.Aggregation, model.ValidAggregation(input.Aggregation))

	unit, err := units.Normalize(input.Unit)
	if err != nil {
		v.Add("unit", err.Error())
	} else {
		input.Unit = unit
	}

	if input.GoalID != nil {
		_, err := s.goalRepo.ByID(*input.GoalID)
		if errors.Is(err, repository.ErrGoalNotFound) {
			v.Add("goal_id", "unknown goal")
		} else if err != nil {
			return fmt.Errorf("failed to load goal: %w", err)
		}
	}

	return v.Err()
}

func (s *MetricService) Create(input MetricInput) (*model.Metric, error) {
	err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	metric := &model.Metric{
		ID:           uuid.New().String(),
		GoalID:       input.GoalID,
		Name:         input.Name,
		Unit:         input.Unit,
		Aggregation:  input.Aggregation,
		StartValue:   input.StartValue,
		TargetValue:  input.TargetValue,
		CurrentValue: input.StartValue,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.repo.Create(metric)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric: %w", err)
	}

	s.progress.RecalculateIfLinked(metric.GoalID)
	return metric, nil
}

func (s *MetricService) ByID(metricID string) (*model.Metric, error) {
	return s.repo.ByID(metricID)
}

func (s *MetricService) Metrics(goalID string) ([]*model.Metric, error) {
	return s.repo.Metrics(goalID)
}

// Update changes the metric definition. A new unit must be convertible from
// the units its entries were logged in.
func (s *MetricService) Update(metricID string, input MetricInput) (*model.Metric, error) {
	err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	metric, err := s.repo.ByID(metricID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.Entries(metricID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	for _, e := range entries {
		if !units.Compatible(e.Unit, input.Unit) {
			return nil, validation.Field("unit", fmt.Sprintf("entries logged in %s cannot be converted to %s", e.Unit, input.Unit))
		}
	}

	previousGoal := metric.GoalID
	metric.GoalID = input.GoalID
	metric.Name = input.Name
	metric.Unit = input.Unit
	metric.Aggregation = input.Aggregation
	metric.StartValue = input.StartValue
	metric.TargetValue = input.TargetValue
	metric.CurrentValue, err = progress.Aggregate(entries, metric.Aggregation, metric.Unit, metric.StartValue)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate entries: %w", err)
	}
	metric.UpdatedAt = time.Now().UTC()

	err = s.repo.Update(metric)
	if err != nil {
		return nil, err
	}

	s.progress.RecalculateIfLinked(metric.GoalID)
	if !sameGoal(previousGoal, metric.GoalID) {
		s.progress.RecalculateIfLinked(previousGoal)
	}
	return metric, nil
}

func (s *MetricService) Delete(metricID string) error {
	metric, err := s.repo.ByID(metricID)
	if err != nil {
		return err
	}

	err = s.repo.Delete(metricID)
	if err != nil {
		return err
	}

	s.progress.RecalculateIfLinked(metric.GoalID)
	return nil
}

func (s *MetricService) Entries(metricID string) ([]*model.MetricEntry, error) {
	_, err := s.repo.ByID(metricID)
	if err != nil {
		return nil, err
	}
	return s.repo.Entries(metricID)
}

// AddEntry logs a value. The entry keeps the unit it was logged in; it only
// has to be convertible to the metric's unit.
func (s *MetricService) AddEntry(metricID string, input EntryInput) (*model.MetricEntry, *model.Metric, error) {
	metric, err := s.repo.ByID(metricID)
	if err != nil {
		return nil, nil, err
	}

	v := &validation.Errors{}
	if input.Value == nil {
		v.Add("value", "is required")
	}
	v.MaxLength("note", input.Note, 1000)
	unit := metric.Unit
	if strings.TrimSpace(input.Unit) != "" {
		unit, err = units.Normalize(input.Unit)
		if err != nil {
			v.Add("unit", err.Error())
		} else if !units.Compatible(unit, metric.Unit) {
			v.Add("unit", fmt.Sprintf("%s cannot be converted to %s", unit, metric.Unit))
		}
	}
	if err := v.Err(); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	recordedAt := now
	if input.RecordedAt != nil {
		recordedAt = input.RecordedAt.UTC()
	}

	entry := &model.MetricEntry{
		ID:         uuid.New().String(),
		MetricID:   metricID,
		Value:      *input.Value,
		Unit:       unit,
		Note:       strings.TrimSpace(input.Note),
		RecordedAt: recordedAt,
		CreatedAt:  now,
	}

	err = s.repo.CreateEntry(entry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create entry: %w", err)
	}

	metric, err = s.refresh(metric)
	if err != nil {
		return nil, nil, err
	}

	return entry, metric, nil
}

func (s *MetricService) DeleteEntry(metricID, entryID string) (*model.Metric, error) {
	metric, err := s.repo.ByID(metricID)
	if err != nil {
		return nil, err
	}

	err = s.repo.DeleteEntry(metricID, entryID)
	if err != nil {
		return nil, err
	}

	return s.refresh(metric)
}

// refresh re-aggregates the metric's current value and updates its goal.
func (s *MetricService) refresh(metric *model.Metric) (*model.Metric, error) {
	entries, err := s.repo.Entries(metric.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	value, err := progress.Aggregate(entries, metric.Aggregation, metric.Unit, metric.StartValue)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate entries: %w", err)
	}

	err = s.repo.UpdateCurrentValue(metric.ID, value)
	if err != nil {
		return nil, fmt.Errorf("failed to update metric value: %w", err)
	}

	metric.CurrentValue = value
	s.progress.RecalculateIfLinked(metric.GoalID)
	return metric, nil
}
