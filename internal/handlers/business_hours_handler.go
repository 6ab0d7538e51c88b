package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BusinessHoursHandler struct {
	db    *gorm.DB
	audit audit.Sink
	log   *zap.Logger
}

func NewBusinessHoursHandler(db *gorm.DB, sink audit.Sink, log *zap.Logger) *BusinessHoursHandler {
	return &BusinessHoursHandler{db: db, audit: sink, log: log}
}

type BusinessDayConfig struct {
	DayOfWeek      string `json:"day_of_week" binding:"required"`
	IsOpen         bool   `json:"is_open"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	LunchStartTime string `json:"lunch_start_time"`
	LunchEndTime   string `json:"lunch_end_time"`
}

type BusinessHoursUpdateRequest struct {
	Days []BusinessDayConfig `json:"days" binding:"required"`
}

// Update replaces the barber's whole week. Days left out are stored closed.
func (h *BusinessHoursHandler) Update(c *gin.Context) {
	barberID := c.Param("id")

	var count int64
	if err := h.db.Model(&models.Barber{}).Where("id = ?", barberID).Count(&count).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}
	if count == 0 {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return
	}

	var req BusinessHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	rows, err := buildBusinessHours(barberID, req.Days)
	if err != nil {
		httperr.BadRequest(c, "invalid_business_hours", err.Error())
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("barber_id = ?", barberID).Delete(&models.BusinessHours{}).Error; err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		h.log.Error("save business hours", zap.Error(err), zap.String("barber_id", barberID))
		httperr.Internal(c, "failed_to_save_business_hours", "Erro ao salvar horários.")
		return
	}

	userID := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "business_hours_updated",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: req.Days,
	})

	sortBusinessHours(rows)
	c.JSON(http.StatusOK, rows)
}

var errLunchOutsideHours = errors.New("lunch must fall inside opening hours")

func buildBusinessHours(barberID string, days []BusinessDayConfig) ([]models.BusinessHours, error) {
	seen := make(map[availability.DayOfWeek]bool, len(days))
	out := make([]models.BusinessHours, 0, len(availability.Week()))

	for _, d := range days {
		day, err := availability.ParseDayOfWeek(d.DayOfWeek)
		if err != nil {
			return nil, err
		}
		if seen[day] {
			return nil, fmt.Errorf("%s listed twice", day)
		}
		seen[day] = true

		row := models.BusinessHours{
			BarberID:  barberID,
			DayOfWeek: string(day),
			IsOpen:    d.IsOpen,
		}

		if d.IsOpen {
			if err := validateDay(d); err != nil {
				return nil, fmt.Errorf("%s: %w", day, err)
			}
			row.StartTime = normalizeClock(d.StartTime)
			row.EndTime = normalizeClock(d.EndTime)
			row.LunchStartTime = normalizeClock(d.LunchStartTime)
			row.LunchEndTime = normalizeClock(d.LunchEndTime)
		}

		out = append(out, row)
	}

	for _, day := range availability.Week() {
		if !seen[day] {
			out = append(out, models.BusinessHours{BarberID: barberID, DayOfWeek: string(day)})
		}
	}

	return out, nil
}

func validateDay(d BusinessDayConfig) error {
	start, err := minutesOf(d.StartTime)
	if err != nil {
		return err
	}
	end, err := minutesOf(d.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return errors.New("end_time must be after start_time")
	}

	if d.LunchStartTime == "" && d.LunchEndTime == "" {
		return nil
	}
	if d.LunchStartTime == "" || d.LunchEndTime == "" {
		return errors.New("lunch needs both start and end")
	}

	ls, err := minutesOf(d.LunchStartTime)
	if err != nil {
		return err
	}
	le, err := minutesOf(d.LunchEndTime)
	if err != nil {
		return err
	}
	if le < ls || ls < start || le > end {
		return errLunchOutsideHours
	}
	return nil
}

func minutesOf(hm string) (int, error) {
	h, m, err := availability.ParseClock(hm)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// normalizeClock zero-pads an already validated value; "" stays "".
func normalizeClock(hm string) string {
	h, m, err := availability.ParseClock(hm)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}
