package dto

import (
	"time"

	"github.com/serenespring/massage-booking-api/internal/models"
)

type BookingCustomerDTO struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type BookingServiceDTO struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	PriceCents      int     `json:"price_cents"`
	Price           float64 `json:"price"`
}

// BookingDetailDTO is the fully joined record returned for confirmation
// display: booking + customer + service type + price.
type BookingDetailDTO struct {
	ID        uint      `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`

	Customer BookingCustomerDTO `json:"customer"`
	Service  BookingServiceDTO  `json:"service"`
}

func NewBookingDetailDTO(b *models.Booking) BookingDetailDTO {
	return BookingDetailDTO{
		ID:        b.ID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.Status,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
		Customer: BookingCustomerDTO{
			ID:        b.Customer.ID,
			FirstName: b.Customer.FirstName,
			LastName:  b.Customer.LastName,
			Email:     b.Customer.Email,
			Phone:     b.Customer.Phone,
		},
		Service: BookingServiceDTO{
			ID:              b.ServiceType.ID,
			Name:            b.ServiceType.Name,
			DurationMinutes: b.ServiceType.DurationMinutes,
			PriceCents:      b.ServiceType.PriceCents,
			Price:           float64(b.ServiceType.PriceCents) / 100,
		},
	}
}
