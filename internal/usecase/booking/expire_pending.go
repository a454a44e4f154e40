package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/serenespring/massage-booking-api/internal/domain/scheduling"
)

// ExpirePending cancels `pending` bookings that never moved into a payment
// flow. These never blocked availability for other customers, so expiring
// them only tidies the ledger.
type ExpirePending struct {
	repo scheduling.Repository
}

func NewExpirePending(repo scheduling.Repository) *ExpirePending {
	return &ExpirePending{repo: repo}
}

func (uc *ExpirePending) Execute(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-scheduling.PendingExpiryMinutes * time.Minute)
	return uc.repo.ExpireStalePending(ctx, cutoff)
}

// Run sweeps on a fixed interval until ctx is cancelled. Started once from
// main as a background goroutine.
func (uc *ExpirePending) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			expired, err := uc.Execute(ctx, now)
			if err != nil {
				zap.L().Error("pending sweep failed", zap.Error(err))
				continue
			}
			if expired > 0 {
				zap.L().Info("expired stale pending bookings", zap.Int64("count", expired))
			}
		}
	}
}
