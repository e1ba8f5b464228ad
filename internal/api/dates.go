package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// isoDate accepts either a calendar date ("2025-02-10") or an RFC 3339
// timestamp and holds it in UTC. An empty string decodes to the zero time.
type isoDate struct {
	time.Time
}

func (d *isoDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// parseDate parses a calendar date or RFC 3339 timestamp into UTC. Calendar
// dates are midnight UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t.UTC(), nil
}

// timePtr converts an optional request date to a model date.
func timePtr(d *isoDate) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
