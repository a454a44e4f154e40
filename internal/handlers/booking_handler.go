package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/serenespring/massage-booking-api/internal/config"
	"github.com/serenespring/massage-booking-api/internal/httperr"
	"github.com/serenespring/massage-booking-api/internal/httpresp"
	ucBooking "github.com/serenespring/massage-booking-api/internal/usecase/booking"
	"github.com/serenespring/massage-booking-api/internal/validators"
)

type BookingHandler struct {
	cfg              *config.Config
	createBooking    *ucBooking.CreateBooking
	getBooking       *ucBooking.GetBooking
	listServiceTypes *ucBooking.ListServiceTypes
}

func NewBookingHandler(
	cfg *config.Config,
	createBooking *ucBooking.CreateBooking,
	getBooking *ucBooking.GetBooking,
	listServiceTypes *ucBooking.ListServiceTypes,
) *BookingHandler {
	return &BookingHandler{
		cfg:              cfg,
		createBooking:    createBooking,
		getBooking:       getBooking,
		listServiceTypes: listServiceTypes,
	}
}

// --------- Requests ---------

type BookingCustomerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
}

type CreateBookingRequest struct {
	ServiceTypeID uint                   `json:"service_type_id" binding:"required"`
	StartTime     time.Time              `json:"start_time" binding:"required"`
	EndTime       time.Time              `json:"end_time" binding:"required"`
	Customer      BookingCustomerRequest `json:"customer" binding:"required"`
	Notes         string                 `json:"notes"`
}

// --------- Handlers ---------

func (h *BookingHandler) ListServiceTypes(c *gin.Context) {
	types, err := h.listServiceTypes.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_service_types", "Failed to list services.")
		return
	}

	httpresp.List(c, types)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Customer.Email)
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	loc := studioLocation(h.cfg)

	detail, err := h.createBooking.Execute(
		c.Request.Context(),
		ucBooking.CreateBookingInput{
			ServiceTypeID: req.ServiceTypeID,
			StartTime:     req.StartTime.In(loc),
			EndTime:       req.EndTime.In(loc),
			FirstName:     req.Customer.FirstName,
			LastName:      req.Customer.LastName,
			Email:         email,
			Phone:         req.Customer.Phone,
			Notes:         req.Notes,
		},
	)

	if err != nil {
		mapCreateBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":    detail,
		"message": "Booking created successfully.",
	})
}

func (h *BookingHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking id.")
		return
	}

	detail, err := h.getBooking.Execute(c.Request.Context(), uint(id))
	if err != nil {
		if httperr.IsBusiness(err, "booking_not_found") {
			httperr.NotFound(c, "booking_not_found", "Booking not found.")
			return
		}

		httperr.Internal(c, "failed_to_get_booking", "Failed to load booking.")
		return
	}

	httpresp.OK(c, gin.H{"data": detail})
}

// Slot-taken conditions come back as 409 so the client knows to offer a
// different time; validation failures are 400 and need changed input.
func mapCreateBookingError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "invalid_service_type"):
		httperr.BadRequest(c, "invalid_service_type", "Unknown or inactive service type.")
	case httperr.IsBusiness(err, "invalid_duration"):
		httperr.BadRequest(c, "invalid_duration", "Duration must be 30, 60 or 90.")
	case httperr.IsBusiness(err, "slot_unavailable"):
		httperr.Conflict(c, "slot_unavailable", "Selected time slot is no longer available.")
	case httperr.IsBusiness(err, "slot_conflict"):
		httperr.Conflict(c, "slot_conflict", "Time slot conflicts with an existing booking.")
	default:
		httperr.Internal(c, "booking_failed", "Failed to create booking.")
	}
}
