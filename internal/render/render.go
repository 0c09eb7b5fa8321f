package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/service"
	"github.com/templui/lifeos/internal/units"
	"github.com/templui/lifeos/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

var notFound = []error{
	repository.ErrAreaNotFound,
	repository.ErrArticleNotFound,
	repository.ErrAvailabilityNotFound,
	repository.ErrBookingNotFound,
	repository.ErrCheckinNotFound,
	repository.ErrFileNotFound,
	repository.ErrGoalNotFound,
	repository.ErrHabitNotFound,
	repository.ErrInspirationNotFound,
	repository.ErrMetricEntryNotFound,
	repository.ErrMetricNotFound,
	repository.ErrPrincipleNotFound,
	repository.ErrSlotNotFound,
	repository.ErrStepNotFound,
}

var conflict = []error{
	repository.ErrSlotUnavailable,
	repository.ErrSlotInUse,
	repository.ErrSlotExists,
	repository.ErrAlreadyCancelled,
	service.ErrSlotOverlap,
	service.ErrProgressDerived,
}

var badRequest = []error{
	service.ErrSlotInPast,
	service.ErrInvalidRange,
	service.ErrInvalidHorizon,
	service.ErrInvalidProgress,
	service.ErrInvalidDay,
	units.ErrUnknownUnit,
	units.ErrIncompatibleUnits,
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Message writes {"error": message} with the given status.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorResponse{Error: message})
}

// Error maps err to a status code. Unknown errors are logged and reported as
// a generic 500 so internals never reach the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Errors
	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case isAny(err, notFound):
		Message(w, http.StatusNotFound, err.Error())
	case isAny(err, conflict):
		Message(w, http.StatusConflict, err.Error())
	case isAny(err, badRequest):
		Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		Message(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrStorageDisabled):
		Message(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		Message(w, http.StatusInternalServerError, "internal server error")
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Decode reads a JSON body into dst, rejecting unknown fields and trailing data.
// Failures are returned as validation errors on the "body" field.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		return validation.Field("body", describeDecodeError(err))
	}
	if dec.More() {
		return validation.Field("body", "must contain a single JSON object")
	}
	return nil
}

func describeDecodeError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return "must not be empty"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("invalid type for field %q", typeErr.Field)
	case errors.As(err, &maxErr):
		return "is too large"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	}
	return "malformed JSON"
}

// List writes items with status 200, encoding a nil slice as [].
func List[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	JSON(w, http.StatusOK, items)
}
