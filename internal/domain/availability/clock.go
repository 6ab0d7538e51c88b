package availability

import (
	"errors"
	"fmt"
	"time"
)

const clockLayout = "15:04"

var (
	ErrMalformedTime   = errors.New("malformed time of day")
	ErrInvalidDuration = errors.New("service duration must be positive")
)

// ParseClock validates an "HH:MM" wall-clock string.
func ParseClock(hm string) (hour, minute int, err error) {
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, hm)
	}
	return t.Hour(), t.Minute(), nil
}

// At anchors an "HH:MM" value on the calendar day of day, in day's location.
func At(day time.Time, hm string) (time.Time, error) {
	h, m, err := ParseClock(hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}

func FormatClock(t time.Time) string {
	return t.Format(clockLayout)
}

func FormatAll(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, FormatClock(t))
	}
	return out
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay compares calendar days in the location of ref.
func SameDay(ref, t time.Time) bool {
	y1, m1, d1 := ref.Date()
	y2, m2, d2 := t.In(ref.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
