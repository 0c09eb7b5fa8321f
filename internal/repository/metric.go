package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

var (
	ErrMetricNotFound      = errors.New("metric not found")
	ErrMetricEntryNotFound = errors.New("metric entry not found")
)

type MetricRepository interface {
	Create(metric *model.Metric) error
	ByID(metricID string) (*model.Metric, error)
	Metrics(goalID string) ([]*model.Metric, error)
	MetricsByGoal(goalID string) ([]*model.Metric, error)
	Update(metric *model.Metric) error
	UpdateCurrentValue(metricID string, value float64) error
	Delete(metricID string) error

	CreateEntry(entry *model.MetricEntry) error
	EntryByID(metricID, entryID string) (*model.MetricEntry, error)
	Entries(metricID string) ([]*model.MetricEntry, error)
	DeleteEntry(metricID, entryID string) error
}

type metricRepository struct {
	db *sqlx.DB
}

func NewMetricRepository(db *sqlx.DB) MetricRepository {
	return &metricRepository{db: db}
}

func (r *metricRepository) Create(metric *model.Metric) error {
	query := `INSERT INTO metrics (id, goal_id, name, unit, aggregation, start_value, target_value, current_value, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		metric.ID,
		metric.GoalID,
		metric.Name,
		metric.Unit,
		metric.Aggregation,
		metric.StartValue,
		metric.TargetValue,
		metric.CurrentValue,
		metric.CreatedAt,
		metric.UpdatedAt,
	)

	return err
}

func (r *metricRepository) ByID(metricID string) (*model.Metric, error) {
	metric := &model.Metric{}
	query := `SELECT * FROM metrics WHERE id = $1`

	err := r.db.Get(metric, query, metricID)
	if err == sql.ErrNoRows {
		return nil, ErrMetricNotFound
	}

	return metric, err
}

// Metrics lists all metrics, or only those of goalID when it is set.
func (r *metricRepository) Metrics(goalID string) ([]*model.Metric, error) {
	var metrics []*model.Metric
	query := `SELECT * FROM metrics WHERE ($1 = '' OR goal_id = $1) ORDER BY created_at ASC`

	err := r.db.Select(&metrics, query, goalID)
	if err != nil {
		return nil, err
	}

	return metrics, nil
}

func (r *metricRepository) MetricsByGoal(goalID string) ([]*model.Metric, error) {
	var metrics []*model.Metric
	query := `SELECT * FROM metrics WHERE goal_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&metrics, query, goalID)
	if err != nil {
		return nil, err
	}

	return metrics, nil
}

func (r *metricRepository) Update(metric *model.Metric) error {
	query := `UPDATE metrics
	          SET goal_id = $1, name = $2, unit = $3, aggregation = $4, start_value = $5, target_value = $6, current_value = $7, updated_at = $8
	          WHERE id = $9`

	result, err := r.db.Exec(query,
		metric.GoalID,
		metric.Name,
		metric.Unit,
		metric.Aggregation,
		metric.StartValue,
		metric.TargetValue,
		metric.CurrentValue,
		metric.UpdatedAt,
		metric.ID,
	)
	if err != nil {
		return err
	}

	return expectRows(result, ErrMetricNotFound)
}

func (r *metricRepository) UpdateCurrentValue(metricID string, value float64) error {
	query := `UPDATE metrics SET current_value = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, value, time.Now().UTC(), metricID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrMetricNotFound)
}

func (r *metricRepository) Delete(metricID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM metric_entries WHERE metric_id = $1`, metricID); err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM metrics WHERE id = $1`, metricID)
	if err != nil {
		return err
	}
	if err := expectRows(result, ErrMetricNotFound); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *metricRepository) CreateEntry(entry *model.MetricEntry) error {
	query := `INSERT INTO metric_entries (id, metric_id, value, unit, note, recorded_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.MetricID,
		entry.Value,
		entry.Unit,
		entry.Note,
		entry.RecordedAt,
		entry.CreatedAt,
	)

	return err
}

func (r *metricRepository) EntryByID(metricID, entryID string) (*model.MetricEntry, error) {
	entry := &model.MetricEntry{}
	query := `SELECT * FROM metric_entries WHERE id = $1 AND metric_id = $2`

	err := r.db.Get(entry, query, entryID, metricID)
	if err == sql.ErrNoRows {
		return nil, ErrMetricEntryNotFound
	}

	return entry, err
}

// Entries returns the metric's entries, newest first.
func (r *metricRepository) Entries(metricID string) ([]*model.MetricEntry, error) {
	var entries []*model.MetricEntry
	query := `SELECT * FROM metric_entries WHERE metric_id = $1 ORDER BY recorded_at DESC, created_at DESC`

	err := r.db.Select(&entries, query, metricID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *metricRepository) DeleteEntry(metricID, entryID string) error {
	query := `DELETE FROM metric_entries WHERE id = $1 AND metric_id = $2`
	result, err := r.db.Exec(query, entryID, metricID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrMetricEntryNotFound)
}
