package handlers

import (
	"time"

	"github.com/serenespring/massage-booking-api/internal/config"
	"github.com/serenespring/massage-booking-api/internal/timezone"
)

// All request dates are interpreted in the studio's configured timezone,
// never the host locale.

func studioLocation(cfg *config.Config) *time.Location {
	return timezone.Location(cfg.Timezone)
}

func parseDateInStudio(cfg *config.Config, dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, studioLocation(cfg))
}

func startOfTodayInStudio(cfg *config.Config) time.Time {
	now := timezone.NowIn(cfg.Timezone)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
