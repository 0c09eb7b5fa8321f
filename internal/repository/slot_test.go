package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/model"
)

func TestCreateIfMissingIsIdempotent(t *testing.T) {
	slots := NewSlotRepository(newTestDB(t))
	start := time.Date(2030, 5, 6, 9, 0, 0, 0, time.UTC)

	created, err := slots.CreateIfMissing(newSlot(start))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = slots.CreateIfMissing(newSlot(start))
	require.NoError(t, err)
	assert.False(t, created)

	list, err := slots.Slots(start.Add(-time.Hour), start.Add(time.Hour), false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSlotsRangeAndAvailability(t *testing.T) {
	database := newTestDB(t)
	slots := NewSlotRepository(database)
	bookings := NewBookingRepository(database)

	base := time.Date(2030, 5, 6, 9, 0, 0, 0, time.UTC)
	var created []*model.Slot
	for i := 0; i < 4; i++ {
		s := newSlot(base.Add(time.Duration(i) * time.Hour))
		_, err := slots.CreateIfMissing(s)
		require.NoError(t, err)
		created = append(created, s)
	}
	require.NoError(t, bookings.CreateWithSlot(newBooking(created[1].ID)))

	all, err := slots.Slots(base, base.Add(3*time.Hour), false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	free, err := slots.Slots(base, base.Add(4*time.Hour), true)
	require.NoError(t, err)
	require.Len(t, free, 3)
	for _, s := range free {
		assert.NotEqual(t, created[1].ID, s.ID)
	}
}

func TestOverlapping(t *testing.T) {
	slots := NewSlotRepository(newTestDB(t))
	base := time.Date(2030, 5, 6, 9, 0, 0, 0, time.UTC)

	_, err := slots.CreateIfMissing(newSlot(base))
	require.NoError(t, err)

	hit, err := slots.Overlapping(base.Add(30*time.Minute), base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Len(t, hit, 1)

	miss, err := slots.Overlapping(base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, miss)
}

func TestDeleteSlot(t *testing.T) {
	database := newTestDB(t)
	slots := NewSlotRepository(database)
	bookings := NewBookingRepository(database)
	base := time.Date(2030, 5, 6, 9, 0, 0, 0, time.UTC)

	free := newSlot(base)
	booked := newSlot(base.Add(time.Hour))
	for _, s := range []*model.Slot{free, booked} {
		_, err := slots.CreateIfMissing(s)
		require.NoError(t, err)
	}
	require.NoError(t, bookings.CreateWithSlot(newBooking(booked.ID)))

	require.NoError(t, slots.Delete(free.ID))
	assert.ErrorIs(t, slots.Delete(booked.ID), ErrSlotInUse)
	assert.ErrorIs(t, slots.Delete("missing"), ErrSlotNotFound)
}

func TestPurgeBeforeKeepsBookedHistory(t *testing.T) {
	database := newTestDB(t)
	slots := NewSlotRepository(database)
	bookings := NewBookingRepository(database)
	past := time.Now().UTC().Add(-72 * time.Hour).Truncate(time.Hour)

	stale := newSlot(past)
	booked := newSlot(past.Add(time.Hour))
	future := newSlot(time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour))
	for _, s := range []*model.Slot{stale, booked, future} {
		_, err := slots.CreateIfMissing(s)
		require.NoError(t, err)
	}
	require.NoError(t, bookings.CreateWithSlot(newBooking(booked.ID)))

	purged, err := slots.PurgeBefore(time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = slots.ByID(stale.ID)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	_, err = slots.ByID(booked.ID)
	assert.NoError(t, err)
	_, err = slots.ByID(future.ID)
	assert.NoError(t, err)
}
