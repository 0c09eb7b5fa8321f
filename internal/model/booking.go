package model

import (
	"time"
)

const (
	SlotSourceRecurring = "recurring"
	SlotSourceOneOff    = "one_off"
)

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// AvailabilityBlock is a weekly recurring window in the booking timezone.
// Minutes are counted from local midnight.
type AvailabilityBlock struct {
	ID          string    `db:"id" json:"id"`
	Weekday     int       `db:"weekday" json:"weekday"` // 0 = Sunday
	StartMinute int       `db:"start_minute" json:"start_minute"`
	EndMinute   int       `db:"end_minute" json:"end_minute"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Slot struct {
	ID        string    `db:"id" json:"id"`
	StartAt   time.Time `db:"start_at" json:"start_at"`
	EndAt     time.Time `db:"end_at" json:"end_at"`
	Source    string    `db:"source" json:"source"`
	IsBooked  bool      `db:"is_booked" json:"is_booked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (s *Slot) Overlaps(start, end time.Time) bool {
	return s.StartAt.Before(end) && start.Before(s.EndAt)
}

type Booking struct {
	ID        string    `db:"id" json:"id"`
	SlotID    string    `db:"slot_id" json:"slot_id"`
	StartAt   time.Time `db:"start_at" json:"start_at"`
	EndAt     time.Time `db:"end_at" json:"end_at"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Message   string    `db:"message" json:"message"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}
