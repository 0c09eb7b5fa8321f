package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsInvalidSpec(t *testing.T) {
	s := New(time.UTC)

	err := s.Add(Job{Name: "broken", Spec: "every now and then", Run: func(context.Context) error { return nil }})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	require.NoError(t, s.Add(Job{Name: "hourly", Spec: "@every 1h", Run: func(context.Context) error { return nil }}))
	assert.Equal(t, 1, s.Entries())
}

func TestRunNowPassesContextAndError(t *testing.T) {
	s := New(nil)
	failure := errors.New("boom")

	var sawDeadline bool
	err := s.RunNow(Job{
		Name:    "with-timeout",
		Timeout: time.Minute,
		Run: func(ctx context.Context) error {
			_, sawDeadline = ctx.Deadline()
			return failure
		},
	})

	assert.ErrorIs(t, err, failure)
	assert.True(t, sawDeadline)
}

func TestStopCancelsJobContext(t *testing.T) {
	s := New(time.UTC)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	err := s.RunNow(Job{Name: "after-stop", Run: func(ctx context.Context) error { return ctx.Err() }})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStartRunsStartupJobsOnce(t *testing.T) {
	s := New(time.UTC)

	ran := make(chan string, 2)
	require.NoError(t, s.Add(Job{
		Name:       "warm-up",
		Spec:       "@every 1h",
		RunOnStart: true,
		Run:        func(context.Context) error { ran <- "warm-up"; return nil },
	}))
	require.NoError(t, s.Add(Job{
		Name: "hourly",
		Spec: "@every 1h",
		Run:  func(context.Context) error { ran <- "hourly"; return nil },
	}))

	s.Start()
	select {
	case name := <-ran:
		assert.Equal(t, "warm-up", name)
	case <-time.After(5 * time.Second):
		t.Fatal("startup job did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.Empty(t, ran)
}
