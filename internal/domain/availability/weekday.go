package availability

import (
	"fmt"
	"strings"
	"time"
)

// DayOfWeek is the persisted key of a business-hours record.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

var week = [...]DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var fromWeekday = map[time.Weekday]DayOfWeek{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// Week returns the days in display order, monday first.
func Week() []DayOfWeek {
	out := make([]DayOfWeek, len(week))
	copy(out, week[:])
	return out
}

func DayOfWeekOf(t time.Time) DayOfWeek {
	return fromWeekday[t.Weekday()]
}

func ParseDayOfWeek(s string) (DayOfWeek, error) {
	d := DayOfWeek(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown day of week %q", s)
	}
	return d, nil
}

func (d DayOfWeek) Valid() bool {
	return d.Index() >= 0
}

// Index is the position in Week(), or -1 for unknown keys.
func (d DayOfWeek) Index() int {
	for i, w := range week {
		if w == d {
			return i
		}
	}
	return -1
}
