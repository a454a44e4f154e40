package scheduling

import (
	"context"
	"time"

	"github.com/serenespring/massage-booking-api/internal/models"
)

type Repository interface {
	// -------- Business Calendar --------
	GetBusinessHours(
		ctx context.Context,
		dayOfWeek int,
	) (*models.BusinessHours, error) // (nil, nil) when no row exists

	// -------- Block Registry --------
	ListBlocks(
		ctx context.Context,
		windowStart time.Time,
		windowEnd time.Time,
	) ([]models.AvailabilityBlock, error)

	// -------- Booking Ledger (reads) --------
	ListActiveBookings(
		ctx context.Context,
		windowStart time.Time,
		windowEnd time.Time,
	) ([]models.Booking, error)

	CountOverlappingBookings(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) (int64, error)

	GetBookingDetail(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	// -------- Service Types --------
	GetActiveServiceType(
		ctx context.Context,
		id uint,
	) (*models.ServiceType, error)

	ListActiveServiceTypes(
		ctx context.Context,
	) ([]models.ServiceType, error)

	// -------- Customer --------
	UpsertCustomerByEmail(
		ctx context.Context,
		email string,
		firstName string,
		lastName string,
		phone string,
	) (*models.Customer, error)

	// -------- Booking Ledger (writes) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ExpireStalePending(
		ctx context.Context,
		olderThan time.Time,
	) (int64, error)

	// WithinTransaction runs fn against a transaction-scoped repository at
	// serializable isolation. All booking writes go through here.
	WithinTransaction(
		ctx context.Context,
		fn func(Repository) error,
	) error
}
