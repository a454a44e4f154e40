package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/serenespring/massage-booking-api/internal/config"
	"github.com/serenespring/massage-booking-api/internal/httperr"
	ucAvailability "github.com/serenespring/massage-booking-api/internal/usecase/availability"
)

type AvailabilityHandler struct {
	cfg      *config.Config
	getSlots *ucAvailability.GetAvailableSlots
}

func NewAvailabilityHandler(
	cfg *config.Config,
	getSlots *ucAvailability.GetAvailableSlots,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		cfg:      cfg,
		getSlots: getSlots,
	}
}

// GetSlots answers GET /api/availability/slots?date=YYYY-MM-DD&duration=60.
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	dateStr := c.Query("date")
	durationStr := c.Query("duration")

	if dateStr == "" || durationStr == "" {
		httperr.BadRequest(c, "missing_params", "Date and duration are required.")
		return
	}

	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_duration", "Duration must be 30, 60 or 90.")
		return
	}

	date, err := parseDateInStudio(h.cfg, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date format. Use YYYY-MM-DD.")
		return
	}

	if date.Before(startOfTodayInStudio(h.cfg)) {
		httperr.BadRequest(c, "date_in_past", "Cannot book appointments in the past.")
		return
	}

	slots, err := h.getSlots.Execute(c.Request.Context(), date, duration)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_duration") {
			httperr.BadRequest(c, "invalid_duration", "Duration must be 30, 60 or 90.")
			return
		}

		httperr.Internal(c, "availability_failed", "Failed to compute availability.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        dateStr,
		"duration":    duration,
		"day_of_week": int(date.Weekday()),
		"slots":       slots,
		"total_slots": len(slots),
	})
}
