package dto

import "time"

type BookingListDTO struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	BarberID    string    `json:"barber_id"`
	BarberName  string    `json:"barber_name"`
	ServiceID   string    `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Price       float64   `json:"price"`
}

type BookingsPageDTO struct {
	Confirmed []BookingListDTO `json:"confirmed"`
	Finished  []BookingListDTO `json:"finished"`
}

type AgendaItemDTO struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ServiceName string    `json:"service_name"`
}
