package availability

import (
	"context"
	"time"

	"github.com/serenespring/massage-booking-api/internal/domain/scheduling"
	"github.com/serenespring/massage-booking-api/internal/httperr"
)

type GetAvailableSlots struct {
	repo scheduling.Repository
}

func NewGetAvailableSlots(repo scheduling.Repository) *GetAvailableSlots {
	return &GetAvailableSlots{repo: repo}
}

// Execute computes the bookable slots for one calendar day. A closed day is
// an empty list, never an error. The result is recomputed from scratch on
// every call; nothing is cached across requests.
func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	date time.Time,
	durationMinutes int,
) ([]scheduling.Slot, error) {

	if !scheduling.ValidDuration(durationMinutes) {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	weekday := int(date.Weekday())

	hours, err := uc.repo.GetBusinessHours(ctx, weekday)
	if err != nil {
		return nil, err
	}

	open, close, ok := scheduling.ResolveWindow(hours, date)
	if !ok {
		return []scheduling.Slot{}, nil
	}

	windowStart, windowEnd := scheduling.DayWindow(date)

	blocks, err := uc.repo.ListBlocks(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	bookings, err := uc.repo.ListActiveBookings(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	grid := scheduling.GenerateSlots(open, close, duration)

	available := []scheduling.Slot{}
	for _, slot := range grid {
		if scheduling.HasConflict(slot.StartTime, slot.EndTime, bookings, blocks) {
			continue
		}

		slot.Available = true
		available = append(available, slot)
	}

	return available, nil
}
