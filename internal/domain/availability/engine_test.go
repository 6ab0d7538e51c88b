package availability

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

// 2026-10-19 is a Monday.
func monday(h, m int) time.Time {
	return time.Date(2026, 10, 19, h, m, 0, 0, saoPaulo)
}

func standardDay() WorkingDay {
	return WorkingDay{
		IsOpen:     true,
		WorkStart:  monday(9, 0),
		WorkEnd:    monday(18, 0),
		LunchStart: monday(12, 0),
		LunchEnd:   monday(13, 0),
	}
}

func standardHours() []WorkingHours {
	return []WorkingHours{
		{
			DayOfWeek:      Monday,
			IsOpen:         true,
			StartTime:      "09:00",
			EndTime:        "18:00",
			LunchStartTime: "12:00",
			LunchEndTime:   "13:00",
		},
	}
}

func grid(from, to time.Time) []string {
	var out []string
	for t := from; !t.After(to); t = t.Add(SlotStep) {
		out = append(out, FormatClock(t))
	}
	return out
}

func TestComputeWorkedExample(t *testing.T) {
	got, err := Compute(Query{
		Day:             monday(0, 0),
		Now:             monday(0, 0).AddDate(0, 0, -3),
		BarberID:        "b1",
		ServiceDuration: 30 * time.Minute,
		Hours:           standardHours(),
		Bookings: []BookingRecord{
			{ID: "x", BarberID: "b1", ServiceID: "cut", Date: monday(10, 0)},
		},
		Services: []ServiceRecord{{ID: "cut", DurationMin: 30}},
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	want := []string{"09:00", "09:15", "09:30"}
	want = append(want, grid(monday(10, 30), monday(11, 30))...)
	want = append(want, grid(monday(13, 0), monday(17, 30))...)

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Compute() =\n%v\nwant\n%v", got, want)
	}

	for _, excluded := range []string{"09:45", "10:00", "10:15", "11:45", "12:00", "12:30", "17:45"} {
		for _, s := range got {
			if s == excluded {
				t.Errorf("slot %s must not be offered", excluded)
			}
		}
	}
}

func TestGenerateCandidateSlots(t *testing.T) {
	tests := []struct {
		name     string
		day      WorkingDay
		duration time.Duration
		booked   []BookedInterval
		first    string
		last     string
		count    int
	}{
		{
			name:     "closed day is empty",
			day:      WorkingDay{IsOpen: false, WorkStart: monday(9, 0), WorkEnd: monday(18, 0)},
			duration: 30 * time.Minute,
			count:    0,
		},
		{
			name:     "non positive duration is empty",
			day:      standardDay(),
			duration: 0,
			count:    0,
		},
		{
			name:     "slot may end exactly at closing",
			day:      WorkingDay{IsOpen: true, WorkStart: monday(9, 0), WorkEnd: monday(10, 0)},
			duration: 60 * time.Minute,
			first:    "09:00",
			last:     "09:00",
			count:    1,
		},
		{
			name:     "service longer than the day",
			day:      WorkingDay{IsOpen: true, WorkStart: monday(9, 0), WorkEnd: monday(10, 0)},
			duration: 75 * time.Minute,
			count:    0,
		},
		{
			name:     "no lunch configured",
			day:      WorkingDay{IsOpen: true, WorkStart: monday(9, 0), WorkEnd: monday(12, 0)},
			duration: 15 * time.Minute,
			first:    "09:00",
			last:     "11:45",
			count:    12,
		},
		{
			name: "empty lunch window blocks nothing",
			day: WorkingDay{
				IsOpen:     true,
				WorkStart:  monday(11, 0),
				WorkEnd:    monday(13, 0),
				LunchStart: monday(12, 0),
				LunchEnd:   monday(12, 0),
			},
			duration: 30 * time.Minute,
			first:    "11:00",
			last:     "12:30",
			count:    7,
		},
		{
			name:     "lunch fully inside a long service",
			day:      standardDay(),
			duration: 4 * time.Hour,
			first:    "13:00",
			last:     "14:00",
			count:    5,
		},
		{
			name:     "zero length booking blocks nothing",
			day:      WorkingDay{IsOpen: true, WorkStart: monday(9, 0), WorkEnd: monday(10, 0)},
			duration: 30 * time.Minute,
			booked:   []BookedInterval{{Start: monday(9, 15), Duration: 0}},
			first:    "09:00",
			last:     "09:30",
			count:    3,
		},
		{
			name:     "booking covering the whole window",
			day:      WorkingDay{IsOpen: true, WorkStart: monday(9, 0), WorkEnd: monday(10, 0)},
			duration: 15 * time.Minute,
			booked:   []BookedInterval{{Start: monday(8, 30), Duration: 2 * time.Hour}},
			count:    0,
		},
		{
			name:     "odd start keeps the grid anchored on opening",
			day:      WorkingDay{IsOpen: true, WorkStart: monday(9, 10), WorkEnd: monday(10, 0)},
			duration: 20 * time.Minute,
			first:    "09:10",
			last:     "09:40",
			count:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateCandidateSlots(tt.day, tt.duration, tt.booked)
			if got == nil {
				t.Fatal("GenerateCandidateSlots() returned nil, want empty slice")
			}
			if len(got) != tt.count {
				t.Fatalf("len = %d, want %d (%v)", len(got), tt.count, FormatAll(got))
			}
			if tt.count == 0 {
				return
			}
			if s := FormatClock(got[0]); s != tt.first {
				t.Errorf("first = %s, want %s", s, tt.first)
			}
			if s := FormatClock(got[len(got)-1]); s != tt.last {
				t.Errorf("last = %s, want %s", s, tt.last)
			}
		})
	}
}

func TestFilterPastAndOverlap(t *testing.T) {
	candidates := []time.Time{monday(9, 0), monday(9, 30), monday(10, 0), monday(10, 30), monday(11, 0)}
	services := []ServiceRecord{{ID: "cut", DurationMin: 30}, {ID: "beard", DurationMin: 45}}

	tests := []struct {
		name     string
		in       FilterInput
		expected []string
	}{
		{
			name: "today drops past and current instant",
			in: FilterInput{
				SelectedDay:     monday(0, 0),
				Now:             monday(9, 30),
				BarberID:        "b1",
				ServiceDuration: 30 * time.Minute,
			},
			expected: []string{"10:00", "10:30", "11:00"},
		},
		{
			name: "other days keep early slots",
			in: FilterInput{
				SelectedDay:     monday(0, 0),
				Now:             monday(9, 30).AddDate(0, 0, -1),
				BarberID:        "b1",
				ServiceDuration: 30 * time.Minute,
			},
			expected: []string{"09:00", "09:30", "10:00", "10:30", "11:00"},
		},
		{
			name: "booking duration comes from its own service",
			in: FilterInput{
				SelectedDay:     monday(0, 0),
				Now:             monday(0, 0).AddDate(0, 0, -1),
				BarberID:        "b1",
				ServiceDuration: 30 * time.Minute,
				Bookings: []BookingRecord{
					{BarberID: "b1", ServiceID: "beard", Date: monday(9, 30)},
				},
				Services: services,
			},
			expected: []string{"09:00", "10:30", "11:00"},
		},
		{
			name: "other barbers do not block",
			in: FilterInput{
				SelectedDay:     monday(0, 0),
				Now:             monday(0, 0).AddDate(0, 0, -1),
				BarberID:        "b1",
				ServiceDuration: 30 * time.Minute,
				Bookings: []BookingRecord{
					{BarberID: "b2", ServiceID: "cut", Date: monday(9, 0)},
				},
				Services: services,
			},
			expected: []string{"09:00", "09:30", "10:00", "10:30", "11:00"},
		},
		{
			name: "unknown service degrades to zero length",
			in: FilterInput{
				SelectedDay:     monday(0, 0),
				Now:             monday(0, 0).AddDate(0, 0, -1),
				BarberID:        "b1",
				ServiceDuration: 30 * time.Minute,
				Bookings: []BookingRecord{
					{BarberID: "b1", ServiceID: "gone", Date: monday(10, 0)},
				},
				Services: services,
			},
			expected: []string{"09:00", "09:30", "10:00", "10:30", "11:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAll(FilterPastAndOverlap(candidates, tt.in))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("FilterPastAndOverlap() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestComputeDegradesOnMissingHours(t *testing.T) {
	tests := []struct {
		name  string
		hours []WorkingHours
	}{
		{name: "no records", hours: nil},
		{name: "other day only", hours: []WorkingHours{{DayOfWeek: Tuesday, IsOpen: true, StartTime: "09:00", EndTime: "18:00"}}},
		{name: "empty start", hours: []WorkingHours{{DayOfWeek: Monday, IsOpen: true, EndTime: "18:00"}}},
		{name: "closed", hours: []WorkingHours{{DayOfWeek: Monday, IsOpen: false, StartTime: "09:00", EndTime: "18:00"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(Query{
				Day:             monday(0, 0),
				Now:             monday(0, 0).AddDate(0, 0, -1),
				BarberID:        "b1",
				ServiceDuration: 30 * time.Minute,
				Hours:           tt.hours,
			})
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("Compute() = %v, want empty non-nil", got)
			}
		})
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	malformed := standardHours()
	malformed[0].LunchEndTime = "13h00"

	_, err := Compute(Query{
		Day:             monday(0, 0),
		BarberID:        "b1",
		ServiceDuration: 30 * time.Minute,
		Hours:           malformed,
	})
	if !errors.Is(err, ErrMalformedTime) {
		t.Errorf("Compute() error = %v, want ErrMalformedTime", err)
	}

	_, err = Compute(Query{
		Day:             monday(0, 0),
		BarberID:        "b1",
		ServiceDuration: 0,
		Hours:           standardHours(),
	})
	if !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("Compute() error = %v, want ErrInvalidDuration", err)
	}
}

func randomBookings(r *rand.Rand, services []ServiceRecord) []BookingRecord {
	n := r.Intn(6)
	out := make([]BookingRecord, 0, n)
	for i := 0; i < n; i++ {
		barber := "b1"
		if r.Intn(4) == 0 {
			barber = "b2"
		}
		out = append(out, BookingRecord{
			BarberID:  barber,
			ServiceID: services[r.Intn(len(services))].ID,
			Date:      monday(8+r.Intn(10), 15*r.Intn(4)),
		})
	}
	return out
}

func TestSlotInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	services := []ServiceRecord{
		{ID: "cut", DurationMin: 30},
		{ID: "beard", DurationMin: 20},
		{ID: "combo", DurationMin: 75},
		{ID: "missing", DurationMin: 0},
	}
	day := standardDay()

	for round := 0; round < 200; round++ {
		bookings := randomBookings(r, services)
		now := monday(8+r.Intn(12), r.Intn(60))
		booked := ResolveBookings("b1", bookings, services)

		prev := -1
		for minutes := 5; minutes <= 240; minutes += 5 {
			duration := time.Duration(minutes) * time.Minute
			q := Query{
				Day:             monday(0, 0),
				Now:             now,
				BarberID:        "b1",
				ServiceDuration: duration,
				Hours:           standardHours(),
				Bookings:        bookings,
				Services:        services,
			}

			got, err := Compute(q)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}

			again, _ := Compute(q)
			if !reflect.DeepEqual(got, again) {
				t.Fatalf("Compute() not idempotent: %v vs %v", got, again)
			}

			if prev >= 0 && len(got) > prev {
				t.Fatalf("duration %v returned %d slots, more than %d for a shorter service", duration, len(got), prev)
			}
			prev = len(got)

			for i, s := range got {
				start, err := At(monday(0, 0), s)
				if err != nil {
					t.Fatalf("At(%q) error = %v", s, err)
				}
				end := start.Add(duration)

				if i > 0 && s <= got[i-1] {
					t.Fatalf("slots out of order: %v", got)
				}
				if end.After(day.WorkEnd) {
					t.Fatalf("slot %s ends after closing", s)
				}
				if Overlaps(start, end, day.LunchStart, day.LunchEnd) {
					t.Fatalf("slot %s overlaps lunch", s)
				}
				if !start.After(now) {
					t.Fatalf("slot %s is not after now %s", s, FormatClock(now))
				}
				for _, b := range booked {
					if b.Duration > 0 && Overlaps(start, end, b.Start, b.End()) {
						t.Fatalf("slot %s overlaps booking at %s", s, FormatClock(b.Start))
					}
				}
			}
		}
	}
}

func TestComputeMatchesTwoPassPipeline(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	services := []ServiceRecord{{ID: "cut", DurationMin: 30}, {ID: "long", DurationMin: 90}}

	for round := 0; round < 100; round++ {
		bookings := randomBookings(r, services)
		now := monday(7+r.Intn(12), r.Intn(60))
		duration := time.Duration(15+15*r.Intn(6)) * time.Minute

		booked := ResolveBookings("b1", bookings, services)
		first := GenerateCandidateSlots(standardDay(), duration, booked)
		second := FilterPastAndOverlap(first, FilterInput{
			SelectedDay:     monday(0, 0),
			Now:             now,
			BarberID:        "b1",
			ServiceDuration: duration,
			Bookings:        bookings,
			Services:        services,
		})

		got, err := Compute(Query{
			Day:             monday(0, 0),
			Now:             now,
			BarberID:        "b1",
			ServiceDuration: duration,
			Hours:           standardHours(),
			Bookings:        bookings,
			Services:        services,
		})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if want := FormatAll(second); !reflect.DeepEqual(got, want) {
			t.Fatalf("round %d: Compute() = %v, two-pass = %v", round, got, want)
		}
	}
}
