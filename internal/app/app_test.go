package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/config"
	"github.com/templui/lifeos/internal/db"
	"github.com/templui/lifeos/internal/scheduler"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "app.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	a := Build(&config.Config{
		AppName:             "lifeos",
		AppEnv:              "development",
		AppURL:              "http://localhost:8090",
		JWTSecret:           "app-test-secret",
		JWTExpiry:           time.Hour,
		BookingTimezone:     "Europe/Vienna",
		BookingSlotDuration: time.Hour,
		BookingHorizonDays:  7,
		RateLimitRPS:        1,
		RateLimitBurst:      5,
		LoginRateLimitRPS:   0.01,
		LoginRateLimitBurst: 2,
	}, database, nil)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestJobsRunAgainstEmptyDatabase(t *testing.T) {
	a := newTestApp(t)
	jobs := scheduler.New(a.Cfg.BookingLocation())

	names := map[string]bool{}
	onStart := map[string]bool{}
	for _, job := range a.Jobs() {
		onStart[job.Name] = job.RunOnStart
		require.NoError(t, jobs.Add(job), job.Name)
		assert.NoError(t, jobs.RunNow(job), job.Name)
		names[job.Name] = true
	}

	assert.Equal(t, len(names), jobs.Entries())
	for _, name := range []string{"generate_slots", "purge_past_slots", "reset_recurring_steps", "rate_limit_cleanup"} {
		assert.True(t, names[name], name)
	}
	assert.True(t, onStart["generate_slots"], "slots exist right after boot")
	assert.False(t, onStart["purge_past_slots"])
}

func TestBuildWithoutStorageDisablesUploads(t *testing.T) {
	a := newTestApp(t)

	assert.False(t, a.FileService.Enabled())
	assert.Equal(t, "Europe/Vienna", a.BookingService.Location().String())
	assert.Equal(t, 7, a.BookingService.HorizonDays())
}

func TestLoginLimiterIsStricterThanPublic(t *testing.T) {
	a := newTestApp(t)

	for i := 0; i < 2; i++ {
		assert.True(t, a.LoginLimiter.Allow("203.0.113.9"))
	}
	assert.False(t, a.LoginLimiter.Allow("203.0.113.9"))

	for i := 0; i < 5; i++ {
		assert.True(t, a.PublicLimiter.Allow("203.0.113.9"), "public bucket is separate")
	}
}
