package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/templui/lifeos/internal/validation"
)

// queryTime parses an RFC 3339 timestamp or a YYYY-MM-DD date (midnight in loc).
// A missing parameter yields the zero time.
func queryTime(r *http.Request, key string, loc *time.Location) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation("2006-01-02", raw, loc)
	if err == nil {
		return t, nil
	}
	return time.Time{}, validation.Field(key, "must be an RFC 3339 timestamp or YYYY-MM-DD")
}

// queryInt returns def when the parameter is missing.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.Field(key, "must be an integer")
	}
	return n, nil
}

// queryBool returns nil when the parameter is missing.
func queryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, validation.Field(key, fmt.Sprintf("invalid boolean %q", raw))
	}
	return &b, nil
}
