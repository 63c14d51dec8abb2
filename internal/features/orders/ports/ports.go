package ports

import (
	"context"
	"errors"

	"apex-tracker/internal/features/orders/domain"
)

// ErrCollectionMissing is returned by OrderRepository.Load when the orders
// collection has never been written.
var ErrCollectionMissing = errors.New("orders collection missing")

// OrderRepository is the secondary port persisting the whole orders collection
// as a single blob.
type OrderRepository interface {
	// Load returns the stored collection, or ErrCollectionMissing.
	Load(ctx context.Context) ([]domain.Order, error)
	// Save replaces the stored collection.
	Save(ctx context.Context, orders []domain.Order) error
}

// OrderStore is the primary port used by the admin API and the tracking feature.
type OrderStore interface {
	ListOrders(ctx context.Context) []domain.Order
	FindByTrackingID(ctx context.Context, trackingID string) (*domain.Order, bool)
	InsertOrder(ctx context.Context, order domain.Order) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, trackingID string, patch domain.Patch) ([]domain.Order, error)
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	ApplyStatusUpdate(ctx context.Context, trackingID string, req domain.StatusUpdateRequest) (*domain.Order, error)
}
