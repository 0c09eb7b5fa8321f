package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/validation"
)

// monday is 2030-01-07 08:00 UTC.
var monday = time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)

func newBookingService(t *testing.T, notifier BookingNotifier) *BookingService {
	t.Helper()

	database := newTestDB(t)
	svc := NewBookingService(
		repository.NewAvailabilityRepository(database),
		repository.NewSlotRepository(database),
		repository.NewBookingRepository(database),
		notifier,
		time.UTC,
		time.Hour,
		14,
	)
	svc.now = fixedClock(monday)
	return svc
}

func TestBookingGenerateIsIdempotent(t *testing.T) {
	svc := newBookingService(t, nil)

	_, err := svc.AddAvailability(1, 9*60, 12*60) // Monday 09:00-12:00
	require.NoError(t, err)

	created, err := svc.Generate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = svc.Generate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	slots, err := svc.AvailableSlots(time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, monday.Add(time.Hour), slots[0].StartAt.UTC())
	assert.Equal(t, monday.Add(2*time.Hour), slots[0].EndAt.UTC())
}

func TestBookingAddAvailabilityValidation(t *testing.T) {
	svc := newBookingService(t, nil)

	tests := []struct {
		name      string
		weekday   int
		start     int
		end       int
		wantField string
	}{
		{name: "weekday out of range", weekday: 7, start: 60, end: 120, wantField: "weekday"},
		{name: "end before start", weekday: 2, start: 600, end: 540, wantField: "start_minute"},
		{name: "past midnight", weekday: 2, start: 600, end: 24*60 + 1, wantField: "start_minute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddAvailability(tt.weekday, tt.start, tt.end)
			var verr *validation.Errors
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestBookingLifecycle(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newBookingService(t, notifier)
	ctx := context.Background()

	slot, err := svc.AddOneOffSlot(monday.Add(26*time.Hour), 0)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, slot.EndAt.Sub(slot.StartAt))

	booking, err := svc.Book(ctx, BookingInput{
		SlotID: slot.ID,
		Name:   " Ada Lovelace ",
		Email:  "ADA@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", booking.Name)
	assert.Equal(t, "ada@example.com", booking.Email)
	assert.Equal(t, []string{"ada@example.com"}, notifier.confirmations)
	assert.Equal(t, []string{"ada@example.com"}, notifier.notifications)

	available, err := svc.AvailableSlots(time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, available)

	_, err = svc.Book(ctx, BookingInput{SlotID: slot.ID, Name: "Grace", Email: "grace@example.com"})
	assert.ErrorIs(t, err, repository.ErrSlotUnavailable)

	cancelled, err := svc.Cancel(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled())
	assert.Len(t, notifier.cancellations, 1)

	_, err = svc.Cancel(ctx, booking.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyCancelled)

	available, err = svc.AvailableSlots(time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, available, 1)

	// The cancelled booking still references the slot.
	assert.ErrorIs(t, svc.DeleteSlot(slot.ID), repository.ErrSlotInUse)
}

func TestBookingConcurrentClaimsOneWinner(t *testing.T) {
	svc := newBookingService(t, nil)

	slot, err := svc.AddOneOffSlot(monday.Add(48*time.Hour), time.Hour)
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(context.Background(), BookingInput{
				SlotID: slot.ID,
				Name:   "Visitor",
				Email:  "visitor@example.com",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
		conflicts++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflicts)
}

func TestBookingRejections(t *testing.T) {
	svc := newBookingService(t, nil)
	ctx := context.Background()

	_, err := svc.AddOneOffSlot(monday.Add(-time.Hour), time.Hour)
	assert.ErrorIs(t, err, ErrSlotInPast)

	_, err = svc.AddOneOffSlot(monday.Add(3*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = svc.AddOneOffSlot(monday.Add(3*time.Hour+30*time.Minute), time.Hour)
	assert.ErrorIs(t, err, ErrSlotOverlap)

	_, err = svc.Book(ctx, BookingInput{SlotID: "missing", Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, repository.ErrSlotUnavailable)

	_, err = svc.Book(ctx, BookingInput{SlotID: "missing", Name: "Ada", Email: "not-an-email"})
	var verr *validation.Errors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	_, err = svc.Preview(0, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = svc.AllSlots(monday, monday.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.Bookings("pending")
	require.ErrorAs(t, err, &verr)
}

func TestBookingPurgePastSlots(t *testing.T) {
	svc := newBookingService(t, nil)

	_, err := svc.AddOneOffSlot(monday.Add(time.Hour), time.Hour)
	require.NoError(t, err)

	svc.now = fixedClock(monday.Add(72 * time.Hour))
	n, err := svc.PurgePastSlots()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
