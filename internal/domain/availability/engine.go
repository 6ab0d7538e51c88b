package availability

import (
	"fmt"
	"time"
)

// SlotStep is the spacing of the candidate grid.
const SlotStep = 15 * time.Minute

// WorkingDay is one day's operating window anchored on a concrete date.
// A zero LunchStart/LunchEnd means no lunch break.
type WorkingDay struct {
	IsOpen     bool
	WorkStart  time.Time
	WorkEnd    time.Time
	LunchStart time.Time
	LunchEnd   time.Time
}

func (d WorkingDay) hasLunch() bool {
	return !d.LunchStart.IsZero() && d.LunchEnd.After(d.LunchStart)
}

// BookedInterval is an existing booking reduced to [Start, Start+Duration).
type BookedInterval struct {
	Start    time.Time
	Duration time.Duration
}

func (b BookedInterval) End() time.Time {
	return b.Start.Add(b.Duration)
}

// WorkingHours mirrors a stored business-hours record.
type WorkingHours struct {
	DayOfWeek      DayOfWeek
	IsOpen         bool
	StartTime      string
	EndTime        string
	LunchStartTime string
	LunchEndTime   string
}

type BookingRecord struct {
	ID        string
	BarberID  string
	ServiceID string
	Date      time.Time
}

type ServiceRecord struct {
	ID          string
	DurationMin int
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func overlapsAny(start, end time.Time, booked []BookedInterval) bool {
	for _, b := range booked {
		if b.Duration <= 0 {
			continue
		}
		if Overlaps(start, end, b.Start, b.End()) {
			return true
		}
	}
	return false
}

// GenerateCandidateSlots walks the 15 minute grid from WorkStart and keeps the
// starts whose [start, start+serviceDuration) fits before closing and clears
// both lunch and every booked interval. Result is chronological.
func GenerateCandidateSlots(day WorkingDay, serviceDuration time.Duration, booked []BookedInterval) []time.Time {
	if !day.IsOpen || serviceDuration <= 0 {
		return []time.Time{}
	}

	slots := []time.Time{}
	for cur := day.WorkStart; cur.Before(day.WorkEnd); cur = cur.Add(SlotStep) {
		end := cur.Add(serviceDuration)

		// ends only grow along the grid
		if end.After(day.WorkEnd) {
			break
		}

		if day.hasLunch() && Overlaps(cur, end, day.LunchStart, day.LunchEnd) {
			continue
		}

		if overlapsAny(cur, end, booked) {
			continue
		}

		slots = append(slots, cur)
	}

	return slots
}

// FilterInput carries what FilterPastAndOverlap needs besides the candidates.
type FilterInput struct {
	SelectedDay     time.Time
	Now             time.Time
	BarberID        string
	ServiceDuration time.Duration
	Bookings        []BookingRecord
	Services        []ServiceRecord
}

// FilterPastAndOverlap drops candidates already past (only when SelectedDay is
// today) and candidates overlapping a booking of BarberID, each booking taking
// the duration of its own service.
func FilterPastAndOverlap(candidates []time.Time, in FilterInput) []time.Time {
	booked := ResolveBookings(in.BarberID, in.Bookings, in.Services)
	today := SameDay(in.Now, in.SelectedDay)

	out := make([]time.Time, 0, len(candidates))
	for _, c := range candidates {
		if today && !c.After(in.Now) {
			continue
		}
		if overlapsAny(c, c.Add(in.ServiceDuration), booked) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ResolveBookings keeps the bookings of barberID and gives each the duration of
// its service. Unknown services count as zero length and block nothing.
func ResolveBookings(barberID string, bookings []BookingRecord, services []ServiceRecord) []BookedInterval {
	durations := make(map[string]int, len(services))
	for _, s := range services {
		durations[s.ID] = s.DurationMin
	}

	out := make([]BookedInterval, 0, len(bookings))
	for _, b := range bookings {
		if b.BarberID != barberID {
			continue
		}
		out = append(out, BookedInterval{
			Start:    b.Date,
			Duration: time.Duration(durations[b.ServiceID]) * time.Minute,
		})
	}
	return out
}

// ResolveWorkingDay picks the record for day's weekday and anchors it on day.
// ok is false when there is no usable record, which callers treat as closed.
func ResolveWorkingDay(day time.Time, hours []WorkingHours) (wd WorkingDay, ok bool, err error) {
	key := DayOfWeekOf(day)

	var rec *WorkingHours
	for i := range hours {
		if hours[i].DayOfWeek == key {
			rec = &hours[i]
			break
		}
	}
	if rec == nil || rec.StartTime == "" || rec.EndTime == "" {
		return WorkingDay{}, false, nil
	}

	wd.IsOpen = rec.IsOpen
	if wd.WorkStart, err = At(day, rec.StartTime); err != nil {
		return WorkingDay{}, false, fmt.Errorf("%s start: %w", key, err)
	}
	if wd.WorkEnd, err = At(day, rec.EndTime); err != nil {
		return WorkingDay{}, false, fmt.Errorf("%s end: %w", key, err)
	}

	if rec.LunchStartTime != "" && rec.LunchEndTime != "" {
		if wd.LunchStart, err = At(day, rec.LunchStartTime); err != nil {
			return WorkingDay{}, false, fmt.Errorf("%s lunch start: %w", key, err)
		}
		if wd.LunchEnd, err = At(day, rec.LunchEndTime); err != nil {
			return WorkingDay{}, false, fmt.Errorf("%s lunch end: %w", key, err)
		}
	}

	return wd, true, nil
}

// Query is a single availability request. Day is any instant on the selected
// calendar day, expressed in the shop location.
type Query struct {
	Day             time.Time
	Now             time.Time
	BarberID        string
	ServiceDuration time.Duration
	Hours           []WorkingHours
	Bookings        []BookingRecord
	Services        []ServiceRecord
}

// Compute returns the bookable "HH:MM" starts for q. It is equivalent to
// GenerateCandidateSlots followed by FilterPastAndOverlap, with every booking
// measured by its own service duration from the start.
func Compute(q Query) ([]string, error) {
	if q.ServiceDuration <= 0 {
		return nil, ErrInvalidDuration
	}

	day, ok, err := ResolveWorkingDay(q.Day, q.Hours)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}

	booked := ResolveBookings(q.BarberID, q.Bookings, q.Services)
	slots := GenerateCandidateSlots(day, q.ServiceDuration, booked)

	if SameDay(q.Now, q.Day) {
		kept := slots[:0]
		for _, s := range slots {
			if s.After(q.Now) {
				kept = append(kept, s)
			}
		}
		slots = kept
	}

	return FormatAll(slots), nil
}
