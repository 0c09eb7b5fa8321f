package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/service"
	"github.com/templui/lifeos/internal/units"
	"github.com/templui/lifeos/internal/validation"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "validation", err: validation.Field("email", "is required"), wantStatus: http.StatusBadRequest, wantBody: `"email":"is required"`},
		{name: "not found", err: repository.ErrGoalNotFound, wantStatus: http.StatusNotFound, wantBody: "goal not found"},
		{name: "wrapped not found", err: fmt.Errorf("load: %w", repository.ErrSlotNotFound), wantStatus: http.StatusNotFound},
		{name: "double booking", err: repository.ErrSlotUnavailable, wantStatus: http.StatusConflict},
		{name: "derived progress", err: service.ErrProgressDerived, wantStatus: http.StatusConflict},
		{name: "incompatible units", err: units.ErrIncompatibleUnits, wantStatus: http.StatusBadRequest},
		{name: "credentials", err: service.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "storage disabled", err: service.ErrStorageDisabled, wantStatus: http.StatusServiceUnavailable},
		{name: "internal", err: errors.New("disk on fire"), wantStatus: http.StatusInternalServerError, wantBody: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			assert.NotContains(t, rec.Body.String(), "disk on fire")
		})
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"name":"Ada","age":36}`},
		{name: "empty", body: ``, wantErr: "must not be empty"},
		{name: "unknown field", body: `{"name":"Ada","admin":true}`, wantErr: `unknown field "admin"`},
		{name: "wrong type", body: `{"age":"old"}`, wantErr: `invalid type for field "age"`},
		{name: "trailing data", body: `{"name":"Ada"}{"name":"Bob"}`, wantErr: "single JSON object"},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, wantErr: "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var p payload
			err := Decode(rec, req, &p)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, payload{Name: "Ada", Age: 36}, p)
				return
			}

			var verr *validation.Errors
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields["body"], tt.wantErr)
		})
	}
}

func TestListEncodesNilAsEmptyArray(t *testing.T) {
	rec := httptest.NewRecorder()
	List[string](rec, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
