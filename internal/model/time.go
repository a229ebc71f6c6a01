package model

import (
	"bytes"
	"strings"
	"time"
)

// Time wraps time.Time with lenient JSON decoding. The gateway
// transmits timestamps as serialized date strings; an unparsable value
// decodes to the zero Time instead of failing the enclosing payload, so
// a single bad timestamp degrades to a blank cell rather than dropping
// the whole job.
type Time struct {
	time.Time
}

// timeFormats are tried in order when decoding. RFC3339Nano covers the
// formats Go servers emit; the trailing entries cover servers that drop
// the timezone.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// UnmarshalJSON decodes a JSON string into a Time. null, empty strings
// and unparsable values all decode to the zero Time without error.
func (t *Time) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		t.Time = time.Time{}
		return nil
	}

	raw := strings.Trim(string(trimmed), `"`)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, format := range timeFormats {
		parsed, err := time.Parse(format, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}

	// Unparsable timestamps degrade to blank display.
	t.Time = time.Time{}
	return nil
}

// MarshalJSON encodes the time as an RFC3339 string, or null for the
// zero Time.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

// Before reports whether t is strictly before other.
func (t Time) Before(other Time) bool {
	return t.Time.Before(other.Time)
}

// Equal reports whether t and other represent the same instant.
func (t Time) Equal(other Time) bool {
	return t.Time.Equal(other.Time)
}
