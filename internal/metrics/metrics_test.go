package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "", want: "/"},
		{path: "/api/goals", want: "/api/goals"},
		{path: "/api/goals/3f2b8c1e-9a4d-4c8e-b1f2-0a9e8d7c6b5a/recalculate", want: "/api/goals/:id/recalculate"},
		{path: "/api/habits/3f2b8c1e-9a4d-4c8e-b1f2-0a9e8d7c6b5a/checkins/2026-03-02", want: "/api/habits/:id/checkins/:day"},
		{path: "/api/articles/deep-work", want: "/api/articles/:slug"},
		{path: "/api/admin/articles/3f2b8c1e-9a4d-4c8e-b1f2-0a9e8d7c6b5a/publish", want: "/api/admin/articles/:id/publish"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalPath(tt.path))
		})
	}
}

func TestInstrumentHandlerCountsRequests(t *testing.T) {
	h := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/units", "418"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/units", nil))
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/units", "418"))

	assert.Equal(t, before+1, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(bookings.WithLabelValues("created"))
	RecordBooking("created")
	assert.Equal(t, before+1, testutil.ToFloat64(bookings.WithLabelValues("created")))

	beforeSlots := testutil.ToFloat64(slotsGenerated)
	RecordSlotsGenerated(3)
	RecordSlotsGenerated(0)
	assert.Equal(t, beforeSlots+3, testutil.ToFloat64(slotsGenerated))

	RecordJobRun("", 0, true)
	assert.Equal(t, float64(1), testutil.ToFloat64(jobRuns.WithLabelValues("unknown", "true")))
}

func TestHandlerServesRegistry(t *testing.T) {
	RecordRecalculation("changed")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lifeos_tracker_progress_recalculations_total")
}
