package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	availability *booking.GetAvailability
	create       *booking.CreateBooking
	cancel       *booking.CancelBooking
	list         *booking.ListBookings
	agenda       *booking.ListAgenda
	log          *zap.Logger
}

func NewBookingHandler(
	availability *booking.GetAvailability,
	create *booking.CreateBooking,
	cancel *booking.CancelBooking,
	list *booking.ListBookings,
	agenda *booking.ListAgenda,
	log *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		create:       create,
		cancel:       cancel,
		list:         list,
		agenda:       agenda,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	BarberID  string `json:"barber_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:MM
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	serviceID := c.Query("service_id")
	date := c.Query("date")

	if serviceID == "" || date == "" {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return
	}

	out, err := h.availability.Execute(
		c.Request.Context(),
		booking.AvailabilityInput{
			BarberID:  c.Param("id"),
			ServiceID: serviceID,
			Date:      date,
		},
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	b, err := h.create.Execute(
		c.Request.Context(),
		booking.CreateBookingInput{
			UserID:    middleware.UserID(c),
			BarberID:  req.BarberID,
			ServiceID: req.ServiceID,
			Date:      req.Date,
			Time:      req.Time,
		},
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// LIST (confirmed / finished)
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	page, err := h.list.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	err := h.cancel.Execute(
		c.Request.Context(),
		middleware.UserID(c),
		c.Param("id"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// AGENDA (admin)
// ======================================================

func (h *BookingHandler) Agenda(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_params", "Data obrigatória.")
		return
	}

	items, err := h.agenda.Execute(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"bookings": items,
	})
}

// ======================================================
// ERRORS
// ======================================================

func (h *BookingHandler) writeError(c *gin.Context, err error) {
	switch code := httperr.BusinessCode(err); code {
	case "unauthenticated":
		httperr.Unauthorized(c, code, "Faça login para agendar.")
	case "invalid_date_or_time":
		httperr.BadRequest(c, code, "Data ou hora inválida.")
	case "service_not_found":
		httperr.NotFound(c, code, "Serviço não encontrado.")
	case "barber_not_found":
		httperr.NotFound(c, code, "Barbeiro não encontrado.")
	case "booking_not_found":
		httperr.NotFound(c, code, "Agendamento não encontrado.")
	case "slot_unavailable":
		httperr.Conflict(c, code, "Horário indisponível.")
	case "time_conflict":
		httperr.Conflict(c, code, "Conflito de horário.")
	case "slot_locked":
		httperr.Conflict(c, code, "Horário em reserva por outro cliente, tente novamente.")
	case "booking_already_finished":
		httperr.Conflict(c, code, "Agendamento já finalizado.")
	default:
		if errors.Is(err, availability.ErrMalformedTime) {
			httperr.Unprocessable(c, "invalid_working_hours", "Horário de funcionamento inválido.")
			return
		}
		h.log.Error("booking request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(logging.RequestIDKey)),
		)
		httperr.Internal(c, "internal_error", "Erro interno.")
	}
}
