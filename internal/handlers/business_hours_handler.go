package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/serenespring/massage-booking-api/internal/audit"
	"github.com/serenespring/massage-booking-api/internal/httperr"
	"github.com/serenespring/massage-booking-api/internal/middleware"
	"github.com/serenespring/massage-booking-api/internal/models"
)

type BusinessHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewBusinessHoursHandler(db *gorm.DB, audit *audit.Dispatcher) *BusinessHoursHandler {
	return &BusinessHoursHandler{db: db, audit: audit}
}

type BusinessHoursUpdateRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	IsActive  bool   `json:"is_active"`
}

// List is public: the booking page shows which weekdays are open.
func (h *BusinessHoursHandler) List(c *gin.Context) {
	var hours []models.BusinessHours
	if err := h.db.Order("day_of_week ASC").Find(&hours).Error; err != nil {
		httperr.Internal(c, "failed_to_get_business_hours", "Failed to load business hours.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hours})
}

// Update mutates the single row for a weekday. Rows are pre-seeded for all
// seven days; nothing is ever created or deleted here.
func (h *BusinessHoursHandler) Update(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("dayOfWeek"))
	if err != nil || day < 0 || day > 6 {
		httperr.BadRequest(c, "invalid_day_of_week", "Day of week must be 0-6.")
		return
	}

	var req BusinessHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if !validWallClock(req.StartTime) || !validWallClock(req.EndTime) {
		httperr.BadRequest(c, "invalid_time_format", "Times must be HH:MM wall clock.")
		return
	}

	var hours models.BusinessHours
	if err := h.db.Where("day_of_week = ?", day).First(&hours).Error; err != nil {
		httperr.NotFound(c, "business_hours_not_found", "No business hours row for that day.")
		return
	}

	hours.StartTime = req.StartTime
	hours.EndTime = req.EndTime
	hours.IsActive = req.IsActive

	if err := h.db.Save(&hours).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business_hours", "Failed to update business hours.")
		return
	}

	adminID := adminIDFromContext(c)
	h.audit.Dispatch(audit.Event{
		AdminID:  adminID,
		Action:   "business_hours_updated",
		Entity:   "business_hours",
		EntityID: &hours.ID,
		Metadata: req,
	})

	c.JSON(http.StatusOK, gin.H{"data": hours})
}

func validWallClock(hm string) bool {
	_, err := time.Parse("15:04", hm)
	return err == nil
}

func adminIDFromContext(c *gin.Context) *uint {
	if v, ok := c.Get(middleware.ContextAdminID); ok {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}
