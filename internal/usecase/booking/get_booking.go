package booking

import (
	"context"

	"github.com/serenespring/massage-booking-api/internal/domain/scheduling"
	"github.com/serenespring/massage-booking-api/internal/dto"
	"github.com/serenespring/massage-booking-api/internal/httperr"
)

type GetBooking struct {
	repo scheduling.Repository
}

func NewGetBooking(repo scheduling.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	id uint,
) (*dto.BookingDetailDTO, error) {

	b, err := uc.repo.GetBookingDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	out := dto.NewBookingDetailDTO(b)
	return &out, nil
}
