package domain

import (
	"fmt"
	"time"
)

// Layouts the remote form fields expect. The start form takes a 12-hour clock
// with seconds; the lifecycle-transition payload takes one without.
const (
	DateLayout       = "2006-01-02"
	StartClockLayout = "03:04:05 PM"
	ClockLayout      = "03:04 PM"
	TransitionLayout = "2006-01-02 03:04 PM"
)

// startLayouts are the combined date/time shapes accepted for a task start.
var startLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// ParseStartTime parses a caller-supplied start timestamp. Several combined
// date/time layouts are accepted on this path only; transitions are stricter.
func ParseStartTime(value string) (time.Time, error) {
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized start time %q", value)
}

// ParseTransitionTime parses the exact "YYYY-MM-DD HH:MM AM/PM" shape the
// pause/resume/end endpoints were reverse-engineered with. No convenience
// layouts here; the asymmetry with ParseStartTime is intentional.
func ParseTransitionTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(TransitionLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("transition time must be %q: %w", TransitionLayout, err)
	}
	return t, nil
}
