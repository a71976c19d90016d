package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Accepted request time layouts, tried in order. Layouts without a zone
// are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// timestamp is a time.Time that also decodes ISO 8601 values without
// seconds or without a zone, e.g. "2024-01-01T09:00Z".
type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := parseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// parseTimestamp parses raw with the first matching layout and returns UTC.
func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// timePtr unwraps an optional timestamp.
func timePtr(t *timestamp) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}
