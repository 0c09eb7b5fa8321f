package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/lifeos/internal/availability"
	"github.com/templui/lifeos/internal/metrics"
	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/validation"
)

var (
	ErrSlotOverlap    = errors.New("slot overlaps an existing slot")
	ErrSlotInPast     = errors.New("slot starts in the past")
	ErrInvalidRange   = errors.New("invalid time range")
	ErrInvalidHorizon = errors.New("days must be between 1 and 366")
)

// BookingNotifier delivers booking emails. EmailService implements it.
type BookingNotifier interface {
	SendBookingConfirmation(ctx context.Context, booking *model.Booking) error
	SendBookingNotification(ctx context.Context, booking *model.Booking) error
	SendBookingCancellation(ctx context.Context, booking *model.Booking) error
}

type BookingInput struct {
	SlotID  string `json:"slot_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type BookingService struct {
	availabilityRepo repository.AvailabilityRepository
	slotRepo         repository.SlotRepository
	bookingRepo      repository.BookingRepository
	notifier         BookingNotifier
	loc              *time.Location
	slotDuration     time.Duration
	horizonDays      int
	now              func() time.Time
}

func NewBookingService(
	availabilityRepo repository.AvailabilityRepository,
	slotRepo repository.SlotRepository,
	bookingRepo repository.BookingRepository,
	notifier BookingNotifier,
	loc *time.Location,
	slotDuration time.Duration,
	horizonDays int,
) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		availabilityRepo: availabilityRepo,
		slotRepo:         slotRepo,
		bookingRepo:      bookingRepo,
		notifier:         notifier,
		loc:              loc,
		slotDuration:     slotDuration,
		horizonDays:      horizonDays,
		now:              time.Now,
	}
}

func (s *BookingService) Location() *time.Location {
	return s.loc
}

func (s *BookingService) HorizonDays() int {
	return s.horizonDays
}

func (s *BookingService) ListAvailability() ([]*model.AvailabilityBlock, error) {
	return s.availabilityRepo.Blocks()
}

func (s *BookingService) AddAvailability(weekday, startMinute, endMinute int) (*model.AvailabilityBlock, error) {
	err := availability.ValidateBlock(weekday, startMinute, endMinute)
	if err != nil {
		field := "start_minute"
		if errors.Is(err, availability.ErrInvalidWeekday) {
			field = "weekday"
		}
		return nil, validation.Field(field, err.Error())
	}

	block := &model.AvailabilityBlock{
		ID:          uuid.New().String(),
		Weekday:     weekday,
		StartMinute: startMinute,
		EndMinute:   endMinute,
		CreatedAt:   s.now().UTC(),
	}

	err = s.availabilityRepo.Create(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability block: %w", err)
	}

	return block, nil
}

func (s *BookingService) DeleteAvailability(blockID string) error {
	return s.availabilityRepo.Delete(blockID)
}

// Preview returns the windows Generate would consider, without touching the database.
func (s *BookingService) Preview(days int, duration time.Duration) ([]availability.Window, error) {
	if days < 1 || days > 366 {
		return nil, ErrInvalidHorizon
	}
	if duration <= 0 {
		duration = s.slotDuration
	}

	blocks, err := s.availabilityRepo.Blocks()
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	return availability.Generate(blocks, s.now(), days, duration, s.loc), nil
}

// Generate expands weekly availability over the next days and inserts the
// slots that do not exist yet. It returns how many were created.
func (s *BookingService) Generate(ctx context.Context, days int) (int, error) {
	windows, err := s.Preview(days, s.slotDuration)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		// Windows of a different duration than existing slots must not overlap them.
		overlapping, err := s.slotRepo.Overlapping(w.Start, w.End)
		if err != nil {
			return created, fmt.Errorf("failed to check overlapping slots: %w", err)
		}
		if len(overlapping) > 0 {
			continue
		}

		ok, err := s.slotRepo.CreateIfMissing(&model.Slot{
			ID:        uuid.New().String(),
			StartAt:   w.Start.UTC(),
			EndAt:     w.End.UTC(),
			Source:    model.SlotSourceRecurring,
			CreatedAt: s.now().UTC(),
		})
		if err != nil {
			return created, fmt.Errorf("failed to create slot: %w", err)
		}
		if ok {
			created++
		}
	}

	metrics.RecordSlotsGenerated(created)
	slog.Info("slots generated", "days", days, "candidates", len(windows), "created", created)
	return created, nil
}

func (s *BookingService) AddOneOffSlot(start time.Time, duration time.Duration) (*model.Slot, error) {
	if duration <= 0 {
		duration = s.slotDuration
	}
	start = start.UTC().Truncate(time.Minute)
	end := start.Add(duration)

	if !start.After(s.now()) {
		return nil, ErrSlotInPast
	}

	overlapping, err := s.slotRepo.Overlapping(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to check overlapping slots: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, ErrSlotOverlap
	}

	slot := &model.Slot{
		ID:        uuid.New().String(),
		StartAt:   start,
		EndAt:     end,
		Source:    model.SlotSourceOneOff,
		CreatedAt: s.now().UTC(),
	}

	ok, err := s.slotRepo.CreateIfMissing(slot)
	if err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}
	if !ok {
		return nil, repository.ErrSlotExists
	}

	return slot, nil
}

// AvailableSlots lists unbooked slots in [from, to) that have not started yet.
// Zero bounds default to now and the booking horizon.
func (s *BookingService) AvailableSlots(from, to time.Time) ([]*model.Slot, error) {
	now := s.now()
	if from.IsZero() || from.Before(now) {
		from = now
	}
	if to.IsZero() {
		to = now.AddDate(0, 0, s.horizonDays)
	}
	if !to.After(from) {
		return []*model.Slot{}, nil
	}

	return s.slotRepo.Slots(from, to, true)
}

func (s *BookingService) AllSlots(from, to time.Time) ([]*model.Slot, error) {
	if from.IsZero() {
		from = s.now().AddDate(0, 0, -7)
	}
	if to.IsZero() {
		to = s.now().AddDate(0, 0, s.horizonDays)
	}
	if !to.After(from) {
		return nil, ErrInvalidRange
	}

	return s.slotRepo.Slots(from, to, false)
}

func (s *BookingService) DeleteSlot(slotID string) error {
	return s.slotRepo.Delete(slotID)
}

// Book validates the visitor's input and claims the slot. Emails go out after
// the booking is stored; failures are logged, never returned.
func (s *BookingService) Book(ctx context.Context, input BookingInput) (*model.Booking, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	input.Message = strings.TrimSpace(input.Message)

	v := &validation.Errors{}
	v.Required("slot_id", input.SlotID)
	v.Check("name", validation.ValidateName(input.Name))
	v.Check("email", validation.ValidateEmail(input.Email))
	v.MaxLength("phone", input.Phone, 40)
	v.MaxLength("message", input.Message, 2000)
	if err := v.Err(); err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.ByID(input.SlotID)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return nil, repository.ErrSlotUnavailable
		}
		return nil, fmt.Errorf("failed to load slot: %w", err)
	}
	if !slot.StartAt.After(s.now()) {
		return nil, repository.ErrSlotUnavailable
	}

	now := s.now().UTC()
	booking := &model.Booking{
		ID:        uuid.New().String(),
		SlotID:    slot.ID,
		StartAt:   slot.StartAt,
		EndAt:     slot.EndAt,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Message:   input.Message,
		Status:    model.BookingStatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.bookingRepo.CreateWithSlot(booking)
	if err != nil {
		if errors.Is(err, repository.ErrSlotUnavailable) {
			metrics.RecordBooking("conflict")
			return nil, err
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.RecordBooking("created")
	slog.Info("booking created", "booking_id", booking.ID, "slot_id", slot.ID, "start_at", booking.StartAt)

	if s.notifier != nil {
		if err := s.notifier.SendBookingConfirmation(ctx, booking); err != nil {
			slog.Error("failed to send booking confirmation", "error", err, "booking_id", booking.ID)
		}
		if err := s.notifier.SendBookingNotification(ctx, booking); err != nil {
			slog.Error("failed to send coach notification", "error", err, "booking_id", booking.ID)
		}
	}

	return booking, nil
}

func (s *BookingService) Bookings(status string) ([]*model.Booking, error) {
	if status != "" && status != model.BookingStatusConfirmed && status != model.BookingStatusCancelled {
		return nil, validation.Field("status", fmt.Sprintf("invalid value %q", status))
	}
	return s.bookingRepo.Bookings(status)
}

func (s *BookingService) Booking(bookingID string) (*model.Booking, error) {
	return s.bookingRepo.ByID(bookingID)
}

func (s *BookingService) Upcoming(limit int) ([]*model.Booking, error) {
	return s.bookingRepo.Upcoming(s.now(), limit)
}

// Cancel marks the booking cancelled and frees its slot for others.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*model.Booking, error) {
	err := s.bookingRepo.Cancel(bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.ByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}

	metrics.RecordBooking("cancelled")
	slog.Info("booking cancelled", "booking_id", booking.ID, "slot_id", booking.SlotID)

	if s.notifier != nil && booking.StartAt.After(s.now()) {
		if err := s.notifier.SendBookingCancellation(ctx, booking); err != nil {
			slog.Error("failed to send cancellation email", "error", err, "booking_id", booking.ID)
		}
	}

	return booking, nil
}

// PurgePastSlots drops unbooked slots that have already ended.
func (s *BookingService) PurgePastSlots() (int64, error) {
	n, err := s.slotRepo.PurgeBefore(s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge slots: %w", err)
	}
	return n, nil
}
