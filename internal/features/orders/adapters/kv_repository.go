package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"apex-tracker/internal/core/kv"
	"apex-tracker/internal/features/orders/domain"
	"apex-tracker/internal/features/orders/ports"
)

// OrdersKey is the key holding the JSON array of orders.
const OrdersKey = "apex_orders"

// KVOrderRepository implements ports.OrderRepository on top of a kv.Store.
type KVOrderRepository struct {
	store kv.Store
}

// NewKVOrderRepository creates a new KVOrderRepository.
func NewKVOrderRepository(store kv.Store) *KVOrderRepository {
	return &KVOrderRepository{store: store}
}

// Load reads and decodes the orders collection.
func (r *KVOrderRepository) Load(ctx context.Context) ([]domain.Order, error) {
	data, err := r.store.Get(ctx, OrdersKey)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, ports.ErrCollectionMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	return orders, nil
}

// Save encodes and writes the full orders collection.
func (r *KVOrderRepository) Save(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}

	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to marshal orders: %w", err)
	}

	if err := r.store.Set(ctx, OrdersKey, data); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}

	return nil
}
