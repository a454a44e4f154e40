package availability

import (
	"context"
	"time"

	"github.com/serenespring/massage-booking-api/internal/domain/scheduling"
)

type IsSlotAvailable struct {
	repo scheduling.Repository
}

func NewIsSlotAvailable(repo scheduling.Repository) *IsSlotAvailable {
	return &IsSlotAvailable{repo: repo}
}

// Execute checks one explicit interval: it must lie within that weekday's
// business hours and overlap neither blocks nor active bookings. The create
// flow does not call this; it validates by exact membership in the
// recomputed slot grid, which is stricter (off-grid intervals fail there).
func (uc *IsSlotAvailable) Execute(
	ctx context.Context,
	start time.Time,
	end time.Time,
) (bool, error) {

	weekday := int(start.Weekday())

	hours, err := uc.repo.GetBusinessHours(ctx, weekday)
	if err != nil {
		return false, err
	}

	open, close, ok := scheduling.ResolveWindow(hours, start)
	if !ok {
		return false, nil
	}

	if start.Before(open) || end.After(close) {
		return false, nil
	}

	windowStart, windowEnd := scheduling.DayWindow(start)

	blocks, err := uc.repo.ListBlocks(ctx, windowStart, windowEnd)
	if err != nil {
		return false, err
	}

	bookings, err := uc.repo.ListActiveBookings(ctx, windowStart, windowEnd)
	if err != nil {
		return false, err
	}

	return !scheduling.HasConflict(start, end, bookings, blocks), nil
}
