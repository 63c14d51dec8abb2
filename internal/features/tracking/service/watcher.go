package service

import (
	"context"
	"time"

	"apex-tracker/internal/core/logger"
	orderdomain "apex-tracker/internal/features/orders/domain"
	"apex-tracker/internal/features/tracking/domain"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often a Watcher re-reads the store.
const DefaultPollInterval = 10 * time.Second

// Update is one emission of a Watcher.
type Update struct {
	// Found is false when no order matches the tracking id.
	Found bool `json:"found"`
	// View is set when Found is true.
	View *domain.TrackingViewModel `json:"view,omitempty"`
}

// Watcher polls the store and reports changes to one tracking view.
type Watcher struct {
	service  *TrackingService
	interval time.Duration
	logger   *zap.Logger
}

// NewWatcher creates a Watcher polling every interval. A non-positive interval
// falls back to DefaultPollInterval.
func NewWatcher(service *TrackingService, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		service:  service,
		interval: interval,
		logger:   logger.Named("tracking"),
	}
}

// Watch emits the current view immediately, then again whenever the stored
// order changes or appears/disappears. The channel is closed once ctx is done.
func (w *Watcher) Watch(ctx context.Context, trackingID string) <-chan Update {
	out := make(chan Update, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		last, found := w.service.lookup(ctx, trackingID)
		if !w.send(ctx, out, last, found) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current, ok := w.service.lookup(ctx, trackingID)
				if ok == found && !orderChanged(last, current) {
					continue
				}

				w.logger.Debug("Tracking view changed",
					zap.String("tracking_id", orderdomain.NormalizeTrackingID(trackingID)),
					zap.Bool("found", ok),
				)

				last, found = current, ok
				if !w.send(ctx, out, last, found) {
					return
				}
			}
		}
	}()

	return out
}

func (w *Watcher) send(ctx context.Context, out chan<- Update, order *orderdomain.Order, found bool) bool {
	u := Update{Found: found}
	if found {
		vm := domain.BuildViewModel(*order, w.service.now())
		u.View = &vm
	}

	select {
	case out <- u:
		return true
	case <-ctx.Done():
		return false
	}
}

func orderChanged(prev, cur *orderdomain.Order) bool {
	if prev == nil || cur == nil {
		return prev != cur
	}

	a, b := *prev, *cur
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return true
	}
	a.CreatedAt, b.CreatedAt = time.Time{}, time.Time{}
	return a != b
}
