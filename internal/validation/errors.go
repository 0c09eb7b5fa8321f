package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Errors collects field-level validation failures. A nil *Errors means valid.
type Errors struct {
	Fields map[string]string `json:"fields"`
}

func (e *Errors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add records the first message for field.
func (e *Errors) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Check records err under field when err is non-nil.
func (e *Errors) Check(field string, err error) {
	if err != nil {
		e.Add(field, err.Error())
	}
}

// Required records a "required" message when value is blank.
func (e *Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "is required")
	}
}

// MaxLength records a message when value exceeds n characters.
func (e *Errors) MaxLength(field, value string, n int) {
	if len([]rune(value)) > n {
		e.Add(field, fmt.Sprintf("must be at most %d characters", n))
	}
}

// OneOf records a message when ok is false.
func (e *Errors) OneOf(field, value string, ok bool) {
	if !ok {
		e.Add(field, fmt.Sprintf("invalid value %q", value))
	}
}

// Range records a message when v is outside [lo, hi].
func (e *Errors) Range(field string, v, lo, hi int) {
	if v < lo || v > hi {
		e.Add(field, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
}

// Err returns e as an error, or nil when nothing was recorded.
func (e *Errors) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Field builds a single-field validation error.
func Field(field, message string) error {
	e := &Errors{}
	e.Add(field, message)
	return e
}
