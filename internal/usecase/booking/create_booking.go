package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/serenespring/massage-booking-api/internal/audit"
	"github.com/serenespring/massage-booking-api/internal/domain/scheduling"
	"github.com/serenespring/massage-booking-api/internal/dto"
	"github.com/serenespring/massage-booking-api/internal/httperr"
	"github.com/serenespring/massage-booking-api/internal/models"
	ucAvailability "github.com/serenespring/massage-booking-api/internal/usecase/availability"
)

// maxAttempts bounds the retries after a serializable transaction is
// aborted by the store (SQLSTATE 40001).
const maxAttempts = 3

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ServiceTypeID uint

	StartTime time.Time
	EndTime   time.Time

	FirstName string
	LastName  string
	Email     string
	Phone     string

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  scheduling.Repository
	audit *audit.Dispatcher
}

func NewCreateBooking(
	repo scheduling.Repository,
	audit *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
	}
}

// Execute reserves a slot atomically. The availability the customer saw is
// never trusted: everything is re-validated inside one serializable
// transaction, so two concurrent attempts on the same slot end with exactly
// one created booking.
func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*dto.BookingDetailDTO, error) {

	// --------------------------------------------------
	// Service type is validated before any transaction
	// opens: not retryable without changing input.
	// --------------------------------------------------
	svc, err := uc.repo.GetActiveServiceType(ctx, in.ServiceTypeID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, httperr.ErrBusiness("invalid_service_type")
	}

	var bookingID uint

	attempt := func() error {
		return uc.repo.WithinTransaction(ctx, func(txRepo scheduling.Repository) error {

			// ------------------------------------------
			// Re-check availability under the transaction
			// ------------------------------------------
			slots, err := ucAvailability.NewGetAvailableSlots(txRepo).Execute(
				ctx,
				in.StartTime,
				svc.DurationMinutes,
			)
			if err != nil {
				return err
			}

			found := false
			for _, slot := range slots {
				if slot.StartTime.Equal(in.StartTime) && slot.EndTime.Equal(in.EndTime) {
					found = true
					break
				}
			}
			if !found {
				return httperr.ErrBusiness("slot_unavailable")
			}

			// ------------------------------------------
			// Direct overlap guard with row locking
			// ------------------------------------------
			overlapping, err := txRepo.CountOverlappingBookings(
				ctx,
				in.StartTime,
				in.EndTime,
			)
			if err != nil {
				return err
			}
			if overlapping > 0 {
				return httperr.ErrBusiness("slot_conflict")
			}

			// ------------------------------------------
			// Customer upsert by email, latest details win
			// ------------------------------------------
			customer, err := txRepo.UpsertCustomerByEmail(
				ctx,
				in.Email,
				in.FirstName,
				in.LastName,
				in.Phone,
			)
			if err != nil {
				return err
			}

			b := &models.Booking{
				CustomerID:    customer.ID,
				ServiceTypeID: svc.ID,
				StartTime:     in.StartTime,
				EndTime:       in.EndTime,
				Status:        string(scheduling.InitialStatus()),
				Notes:         in.Notes,
			}

			if err := txRepo.CreateBooking(ctx, b); err != nil {
				return err
			}

			bookingID = b.ID
			return nil
		})
	}

	err = attempt()
	for i := 1; i < maxAttempts && isSerializationFailure(err); i++ {
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	detail, err := uc.repo.GetBookingDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, errors.New("booking missing after commit")
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			Action:   "booking_created",
			Entity:   "booking",
			EntityID: &bookingID,
		})
	}

	out := dto.NewBookingDetailDTO(detail)
	return &out, nil
}

// isSerializationFailure reports whether postgres aborted the transaction
// because serializable isolation could not order it against a concurrent
// writer. Such attempts are safe to retry.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}
