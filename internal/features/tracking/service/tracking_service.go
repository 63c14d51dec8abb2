package service

import (
	"context"
	"errors"
	"time"

	orderdomain "apex-tracker/internal/features/orders/domain"
	"apex-tracker/internal/features/tracking/domain"
	"apex-tracker/internal/features/tracking/ports"
)

// ErrTrackingNotFound is returned when no order matches the tracking id.
var ErrTrackingNotFound = errors.New("tracking id not found")

// TrackingService builds customer tracking views from stored orders.
type TrackingService struct {
	orders ports.OrderLookup
	now    func() time.Time
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(orders ports.OrderLookup) *TrackingService {
	return &TrackingService{
		orders: orders,
		now:    time.Now,
	}
}

// WithClock returns a copy of the service using now as its time source.
func (s *TrackingService) WithClock(now func() time.Time) *TrackingService {
	c := *s
	c.now = now
	return &c
}

// Track returns the view model for trackingID.
func (s *TrackingService) Track(ctx context.Context, trackingID string) (*domain.TrackingViewModel, error) {
	order, ok := s.lookup(ctx, trackingID)
	if !ok {
		return nil, ErrTrackingNotFound
	}

	vm := domain.BuildViewModel(*order, s.now())
	return &vm, nil
}

func (s *TrackingService) lookup(ctx context.Context, trackingID string) (*orderdomain.Order, bool) {
	if orderdomain.NormalizeTrackingID(trackingID) == "" {
		return nil, false
	}
	return s.orders.FindByTrackingID(ctx, trackingID)
}
