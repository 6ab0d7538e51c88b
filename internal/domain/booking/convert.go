package booking

import (
	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func ToWorkingHours(rows []models.BusinessHours) []availability.WorkingHours {
	out := make([]availability.WorkingHours, 0, len(rows))
	for _, r := range rows {
		out = append(out, availability.WorkingHours{
			DayOfWeek:      availability.DayOfWeek(r.DayOfWeek),
			IsOpen:         r.IsOpen,
			StartTime:      r.StartTime,
			EndTime:        r.EndTime,
			LunchStartTime: r.LunchStartTime,
			LunchEndTime:   r.LunchEndTime,
		})
	}
	return out
}

func ToBookingRecords(rows []models.Booking) []availability.BookingRecord {
	out := make([]availability.BookingRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, availability.BookingRecord{
			ID:        r.ID,
			BarberID:  r.BarberID,
			ServiceID: r.ServiceID,
			Date:      r.Date,
		})
	}
	return out
}

func ToServiceRecords(rows []models.Service) []availability.ServiceRecord {
	out := make([]availability.ServiceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, availability.ServiceRecord{
			ID:          r.ID,
			DurationMin: r.DurationMin,
		})
	}
	return out
}
