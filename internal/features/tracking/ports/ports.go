package ports

import (
	"context"

	orderdomain "apex-tracker/internal/features/orders/domain"
)

// OrderLookup resolves tracking ids to stored orders.
// It is satisfied by the orders feature's store.
type OrderLookup interface {
	FindByTrackingID(ctx context.Context, trackingID string) (*orderdomain.Order, bool)
}
