package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/db"
	"github.com/templui/lifeos/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []string
	notifications []string
	cancellations []string
}

func (n *recordingNotifier) SendBookingConfirmation(_ context.Context, b *model.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, b.Email)
	return nil
}

func (n *recordingNotifier) SendBookingNotification(_ context.Context, b *model.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, b.Email)
	return nil
}

func (n *recordingNotifier) SendBookingCancellation(_ context.Context, b *model.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancellations = append(n.cancellations, b.Email)
	return nil
}
