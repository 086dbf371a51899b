package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when an entity id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrUnknownRecordKind is returned for a record kind outside the supported set.
	ErrUnknownRecordKind = errors.New("unknown record kind")
)

// ValidationError collects per-field messages from form validation.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// Add records a message for field; the first message per field wins.
func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, exists := v.Fields[field]; exists {
		return
	}
	v.Fields[field] = message
}

// OrNil returns nil when no field failed so callers can return it directly.
func (v *ValidationError) OrNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
