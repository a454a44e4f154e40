package scheduling

import (
	"time"

	"github.com/serenespring/massage-booking-api/internal/models"
)

// DayWindow returns the inclusive query window for one calendar day in the
// date's location: local midnight through 23:59:59.999.
func DayWindow(date time.Time) (time.Time, time.Time) {
	loc := date.Location()

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, int(999*time.Millisecond), loc)

	return start, end
}

// ResolveWindow materializes a weekday's wall-clock business hours onto the
// given calendar day. ok is false for a missing, inactive or malformed row,
// which callers treat as a closed day.
func ResolveWindow(hours *models.BusinessHours, day time.Time) (open, close time.Time, ok bool) {
	if hours == nil || !hours.IsActive || hours.StartTime == "" || hours.EndTime == "" {
		return time.Time{}, time.Time{}, false
	}

	loc := day.Location()

	parseHM := func(hm string) (time.Time, bool) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(
			day.Year(), day.Month(), day.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), true
	}

	open, okStart := parseHM(hours.StartTime)
	close, okEnd := parseHM(hours.EndTime)
	if !okStart || !okEnd || !close.After(open) {
		return time.Time{}, time.Time{}, false
	}

	return open, close, true
}
