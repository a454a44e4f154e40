package scheduling

import (
	"time"

	"github.com/serenespring/massage-booking-api/internal/models"
)

// Interval is a half-open [Start, End) occupied period.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps tests a candidate [start, end) against occupied intervals under
// half-open semantics: overlap iff start < occupied.End && end > occupied.Start.
func Overlaps(start, end time.Time, occupied []Interval) bool {
	for _, iv := range occupied {
		if start.Before(iv.End) && end.After(iv.Start) {
			return true
		}
	}
	return false
}

// HasConflict disqualifies a candidate that overlaps any active booking or
// any blocked period. Pure; callers pre-fetch both lists for the day window.
func HasConflict(
	start time.Time,
	end time.Time,
	bookings []models.Booking,
	blocks []models.AvailabilityBlock,
) bool {

	for _, b := range bookings {
		if start.Before(b.EndTime) && end.After(b.StartTime) {
			return true
		}
	}

	for _, bl := range blocks {
		if start.Before(bl.EndTime) && end.After(bl.StartTime) {
			return true
		}
	}

	return false
}
