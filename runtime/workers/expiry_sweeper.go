package workers

import (
	"context"
	"imahima/contract"
	"imahima/domain"
	"imahima/domain/event"
	"log/slog"
	"time"
)

type StaleExpirer interface {
	ExpireStale(ctx context.Context) ([]domain.PresenceRecord, error)
}

type ObserverResolver interface {
	VisibleObserversOf(ctx context.Context, subject domain.MemberID) ([]domain.MemberID, error)
}

// ExpirySweeper periodically writes back expired presence records and tells
// live subscribers about it. Readers normalize expiry on their own, so a
// late or skipped sweep only delays the stream, never a read.
type ExpirySweeper struct {
	log       *slog.Logger
	expirer   StaleExpirer
	observers ObserverResolver
	publisher contract.Publisher
	interval  time.Duration
}

func NewExpirySweeper(log *slog.Logger, expirer StaleExpirer, observers ObserverResolver,
	publisher contract.Publisher, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		log:       log,
		expirer:   expirer,
		observers: observers,
		publisher: publisher,
		interval:  interval,
	}
}

func (w *ExpirySweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.Sweep(ctx); err != nil {
				w.log.Warn("Expiry sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs one pass and publishes a PresenceChanged per expired record.
func (w *ExpirySweeper) Sweep(ctx context.Context) error {
	expired, err := w.expirer.ExpireStale(ctx)
	for _, record := range expired {
		observers, obsErr := w.observers.VisibleObserversOf(ctx, record.MemberID)
		if obsErr != nil {
			w.log.Warn("Failed to resolve observers", "member_id", record.MemberID, "error", obsErr)
			continue
		}
		w.publisher.Publish(event.PresenceChanged{
			Record:    record,
			Observers: observers,
			Expired:   true,
			At:        record.UpdatedAt,
		})
	}
	if len(expired) > 0 {
		w.log.Debug("Expired presences written back", "count", len(expired))
	}
	return err
}
