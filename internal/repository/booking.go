package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/model"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSlotUnavailable  = errors.New("slot is no longer available")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

type BookingRepository interface {
	// CreateWithSlot claims the booking's slot and inserts the booking atomically.
	// A slot that is already booked, or missing, yields ErrSlotUnavailable.
	CreateWithSlot(booking *model.Booking) error
	ByID(bookingID string) (*model.Booking, error)
	Bookings(status string) ([]*model.Booking, error)
	Upcoming(from time.Time, limit int) ([]*model.Booking, error)
	// Cancel marks the booking cancelled and releases its slot atomically.
	Cancel(bookingID string) error
}

type bookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) CreateWithSlot(booking *model.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Conditional update: only one concurrent request can flip the flag.
	result, err := tx.Exec(`UPDATE slots SET is_booked = true WHERE id = $1 AND is_booked = false`, booking.SlotID)
	if err != nil {
		return err
	}
	if err := expectRows(result, ErrSlotUnavailable); err != nil {
		return err
	}

	var slot model.Slot
	if err := tx.Get(&slot, `SELECT * FROM slots WHERE id = $1`, booking.SlotID); err != nil {
		return err
	}
	booking.StartAt = slot.StartAt
	booking.EndAt = slot.EndAt

	query := `INSERT INTO bookings (id, slot_id, start_at, end_at, name, email, phone, message, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.Exec(query,
		booking.ID,
		booking.SlotID,
		booking.StartAt,
		booking.EndAt,
		booking.Name,
		booking.Email,
		booking.Phone,
		booking.Message,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *bookingRepository) ByID(bookingID string) (*model.Booking, error) {
	booking := &model.Booking{}
	query := `SELECT * FROM bookings WHERE id = $1`

	err := r.db.Get(booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}

	return booking, err
}

// Bookings lists bookings with the given status, or all when status is empty.
func (r *bookingRepository) Bookings(status string) ([]*model.Booking, error) {
	var bookings []*model.Booking
	query := `SELECT * FROM bookings WHERE ($1 = '' OR status = $1) ORDER BY start_at DESC`

	err := r.db.Select(&bookings, query, status)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *bookingRepository) Upcoming(from time.Time, limit int) ([]*model.Booking, error) {
	var bookings []*model.Booking
	query := `SELECT * FROM bookings WHERE status = $1 AND start_at >= $2 ORDER BY start_at ASC LIMIT $3`

	err := r.db.Select(&bookings, query, model.BookingStatusConfirmed, from.UTC(), limit)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *bookingRepository) Cancel(bookingID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var booking model.Booking
	err = tx.Get(&booking, `SELECT * FROM bookings WHERE id = $1`, bookingID)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if booking.IsCancelled() {
		return ErrAlreadyCancelled
	}

	_, err = tx.Exec(`UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`,
		model.BookingStatusCancelled, time.Now().UTC(), bookingID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`UPDATE slots SET is_booked = false WHERE id = $1`, booking.SlotID)
	if err != nil {
		return err
	}

	return tx.Commit()
}
