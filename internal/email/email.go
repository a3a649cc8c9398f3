package email

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// #region errors

var (
	ErrMissingField     = errors.New("required field missing")
	ErrInvalidID        = errors.New("invalid id format")
	ErrEmptyBody        = errors.New("body must not be empty")
	ErrInvalidTimestamp = errors.New("invalid timestamp format")
)

// #endregion errors

// #region fields

const (
	FieldID        = "id"
	FieldFrom      = "from"
	FieldSubject   = "subject"
	FieldBody      = "body"
	FieldTimestamp = "timestamp"
)

// RequiredFields lists the fields every email must carry, in validation order.
var RequiredFields = []string{FieldID, FieldFrom, FieldSubject, FieldBody, FieldTimestamp}

var idPattern = regexp.MustCompile(`^\d{3}$`)

// #endregion fields

// #region email

// Email is a single inbound support message.
type Email struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`

	// present is nil for emails built in code, in which case every field counts as present.
	present map[string]bool
}

// Has reports whether the field was supplied with a non-null value.
func (e Email) Has(field string) bool {
	if e.present == nil {
		return true
	}
	return e.present[field]
}

// UnmarshalJSON decodes a record, tracking which fields were absent or null.
// Non-string scalars are kept in their textual form.
func (e *Email) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode email: %w", err)
	}

	out := Email{present: make(map[string]bool, len(RequiredFields))}
	for _, field := range RequiredFields {
		v, ok := raw[field]
		if !ok || v == nil {
			continue
		}
		out.set(field, scalarString(v))
	}
	*e = out
	return nil
}

func (e *Email) set(field, value string) {
	switch field {
	case FieldID:
		e.ID = value
	case FieldFrom:
		e.From = value
	case FieldSubject:
		e.Subject = value
	case FieldBody:
		e.Body = value
	case FieldTimestamp:
		e.Timestamp = value
	default:
		return
	}
	if e.present != nil {
		e.present[field] = true
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// #endregion email

// #region validate

// Validate checks required fields, the three-digit id, a non-blank body and an
// ISO-8601 timestamp, in that order. The first failure is returned.
func Validate(e Email) error {
	for _, field := range RequiredFields {
		if !e.Has(field) {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}
	if !idPattern.MatchString(e.ID) {
		return fmt.Errorf("%w: %q - 3 digits required", ErrInvalidID, e.ID)
	}
	if len(strings.Fields(e.Body)) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyBody, e.ID)
	}
	if _, err := ParseTimestamp(e.Timestamp); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimestamp, e.Timestamp)
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02T15Z07:00",
	"2006-01-02T15",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	"2006-01-02 15Z07:00",
	"2006-01-02 15",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. A trailing Z is read as UTC and
// values without an offset are returned in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", s)
}

// #endregion validate

// #region format

// SubjectAndBody renders the email the way prompts and tickets quote it.
func SubjectAndBody(e Email) string {
	return "Subject:\n" + e.Subject + "\n\nBody:\n" + e.Body
}

// #endregion format
