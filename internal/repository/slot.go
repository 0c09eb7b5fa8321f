package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotInUse    = errors.New("slot has bookings")
	ErrSlotExists   = errors.New("a slot already starts at this time")
)

type SlotRepository interface {
	// CreateIfMissing inserts the slot unless one already starts at the same
	// time, and reports whether a row was written.
	CreateIfMissing(slot *model.Slot) (bool, error)
	ByID(slotID string) (*model.Slot, error)
	Slots(from, to time.Time, availableOnly bool) ([]*model.Slot, error)
	Overlapping(start, end time.Time) ([]*model.Slot, error)
	Delete(slotID string) error
	PurgeBefore(before time.Time) (int64, error)
}

type slotRepository struct {
	db *sqlx.DB
}

func NewSlotRepository(db *sqlx.DB) SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) CreateIfMissing(slot *model.Slot) (bool, error) {
	query := `INSERT INTO slots (id, start_at, end_at, source, is_booked, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (start_at) DO NOTHING`

	result, err := r.db.Exec(query,
		slot.ID,
		slot.StartAt,
		slot.EndAt,
		slot.Source,
		slot.IsBooked,
		slot.CreatedAt,
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *slotRepository) ByID(slotID string) (*model.Slot, error) {
	slot := &model.Slot{}
	query := `SELECT * FROM slots WHERE id = $1`

	err := r.db.Get(slot, query, slotID)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}

	return slot, err
}

// Slots lists slots starting in [from, to), ordered by start.
func (r *slotRepository) Slots(from, to time.Time, availableOnly bool) ([]*model.Slot, error) {
	var slots []*model.Slot
	query := `SELECT * FROM slots
	          WHERE start_at >= $1 AND start_at < $2 AND ($3 = false OR is_booked = false)
	          ORDER BY start_at ASC`

	err := r.db.Select(&slots, query, from.UTC(), to.UTC(), availableOnly)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *slotRepository) Overlapping(start, end time.Time) ([]*model.Slot, error) {
	var slots []*model.Slot
	query := `SELECT * FROM slots WHERE start_at < $1 AND end_at > $2 ORDER BY start_at ASC`

	err := r.db.Select(&slots, query, end.UTC(), start.UTC())
	if err != nil {
		return nil, err
	}

	return slots, nil
}

// Delete removes a slot that no booking, active or cancelled, refers to.
func (r *slotRepository) Delete(slotID string) error {
	query := `DELETE FROM slots
	          WHERE id = $1 AND is_booked = false
	          AND NOT EXISTS (SELECT 1 FROM bookings WHERE bookings.slot_id = slots.id)`

	result, err := r.db.Exec(query, slotID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	if _, err := r.ByID(slotID); err != nil {
		return err
	}
	return ErrSlotInUse
}

// PurgeBefore deletes unbooked slots that ended before the given time and
// were never booked, keeping booking history intact.
func (r *slotRepository) PurgeBefore(before time.Time) (int64, error) {
	query := `DELETE FROM slots
	          WHERE end_at < $1 AND is_booked = false
	          AND NOT EXISTS (SELECT 1 FROM bookings WHERE bookings.slot_id = slots.id)`

	result, err := r.db.Exec(query, before.UTC())
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
