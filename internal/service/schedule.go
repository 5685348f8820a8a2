package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clients submit time-of-day either as 24-hour "HH:MM" or 12-hour
// "H:MM AM/PM". Everything downstream (matching distance, dashboard
// partitioning) works on the canonical 24-hour form.

// NormalizeClock converts a clock string to canonical "HH:MM".
func NormalizeClock(clock string) (string, error) {
	s := strings.TrimSpace(clock)
	lower := strings.ToLower(s)

	if strings.HasSuffix(lower, "am") || strings.HasSuffix(lower, "pm") {
		for _, layout := range []string{"3:04 PM", "3:04PM"} {
			if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
				return t.Format("15:04"), nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}

	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidClock, clock)
}

// ScheduleAt combines a ride's date with its clock string into a single
// instant in the date's location.
func ScheduleAt(date time.Time, clock string) (time.Time, error) {
	norm, err := NormalizeClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	// norm is always "HH:MM" here.
	hour, _ := strconv.Atoi(norm[:2])
	minute, _ := strconv.Atoi(norm[3:])

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}
