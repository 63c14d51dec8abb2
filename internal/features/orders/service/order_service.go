package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"apex-tracker/internal/core/logger"
	"apex-tracker/internal/features/orders/domain"
	"apex-tracker/internal/features/orders/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrOrderNotFound is returned when no order matches the tracking id.
var ErrOrderNotFound = errors.New("order not found")

// DefaultSeedCount is the number of sample orders written on first use.
const DefaultSeedCount = 5

// OrderService is the order store: it owns the orders collection and every
// read-modify-write cycle on it.
type OrderService struct {
	repo      ports.OrderRepository
	logger    *zap.Logger
	now       func() time.Time
	rand      *rand.Rand
	seedCount int

	// mu serializes load/modify/save cycles within this process. Other
	// processes writing the same key still race; the last write wins.
	mu sync.Mutex
}

// Option customizes an OrderService.
type Option func(*OrderService)

// WithClock overrides the time source used for new orders and sample data.
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

// WithRand overrides the random source used for tracking ids and sample data.
func WithRand(r *rand.Rand) Option {
	return func(s *OrderService) { s.rand = r }
}

// WithSeedCount sets how many sample orders are written when the collection is missing.
func WithSeedCount(n int) Option {
	return func(s *OrderService) { s.seedCount = n }
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo ports.OrderRepository, opts ...Option) *OrderService {
	s := &OrderService{
		repo:      repo,
		logger:    logger.Named("orders"),
		now:       time.Now,
		rand:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		seedCount: DefaultSeedCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListOrders returns the full collection, seeding sample orders the first time
// the collection is read. Storage and decode failures are logged and yield an
// empty slice.
func (s *OrderService) ListOrders(ctx context.Context) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.load(ctx)
	if err != nil {
		s.logger.Error("Failed to load orders", zap.Error(err))
		return []domain.Order{}
	}
	return orders
}

// FindByTrackingID returns the first order whose normalized tracking id equals
// the normalized input. Empty input, misses and storage failures all report false.
func (s *OrderService) FindByTrackingID(ctx context.Context, trackingID string) (*domain.Order, bool) {
	normalized := domain.NormalizeTrackingID(trackingID)
	if normalized == "" {
		return nil, false
	}

	orders := s.ListOrders(ctx)
	for i := range orders {
		if orders[i].MatchesTrackingID(normalized) {
			found := orders[i]
			return &found, true
		}
	}

	s.logger.Debug("No order matches tracking id",
		zap.String("tracking_id", normalized),
		zap.Int("orders", len(orders)),
	)
	return nil, false
}

// InsertOrder prepends order to the collection and persists it. Duplicate
// tracking ids are not checked.
func (s *OrderService) InsertOrder(ctx context.Context, order domain.Order) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	updated := make([]domain.Order, 0, len(current)+1)
	updated = append(updated, order)
	updated = append(updated, current...)

	if err := s.repo.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	s.logger.Info("Order inserted",
		zap.String("order_id", order.ID),
		zap.String("tracking_id", order.TrackingID),
	)
	return updated, nil
}

// UpdateOrder merges patch into every order matching trackingID and persists
// the collection. An unmatched id writes nothing and returns the collection as is.
func (s *OrderService) UpdateOrder(ctx context.Context, trackingID string, patch domain.Patch) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	normalized := domain.NormalizeTrackingID(trackingID)
	matched := 0
	for i := range orders {
		if normalized != "" && orders[i].MatchesTrackingID(normalized) {
			orders[i] = orders[i].Apply(patch)
			matched++
		}
	}

	if matched == 0 {
		s.logger.Debug("Update skipped, no matching order", zap.String("tracking_id", normalized))
		return orders, nil
	}

	if err := s.repo.Save(ctx, orders); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	s.logger.Info("Order updated",
		zap.String("tracking_id", normalized),
		zap.Int("matched", matched),
	)
	return orders, nil
}

// CreateOrder validates the admin form, assigns identifiers and inserts the order.
func (s *OrderService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	shipmentDate, _ := domain.ParseShipmentDate(req.ShipmentDate)

	order := domain.Order{
		ID:               "order-" + uuid.NewString(),
		TrackingID:       s.nextTrackingID(),
		CustomerName:     req.CustomerName,
		CreatedAt:        s.now().UTC(),
		Status:           domain.StatusOrdered,
		Origin:           req.Origin,
		Destination:      req.Destination,
		RecipientName:    req.RecipientName,
		RecipientAddress: req.RecipientAddress,
		ShipmentDate:     shipmentDate,
	}

	if _, err := s.InsertOrder(ctx, order); err != nil {
		return nil, err
	}

	return &order, nil
}

// ApplyStatusUpdate validates the admin status form and applies it to the
// matching order.
func (s *OrderService) ApplyStatusUpdate(ctx context.Context, trackingID string, req domain.StatusUpdateRequest) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, ok := s.FindByTrackingID(ctx, trackingID); !ok {
		return nil, ErrOrderNotFound
	}

	orders, err := s.UpdateOrder(ctx, trackingID, req.Patch())
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].MatchesTrackingID(trackingID) {
			s.logger.Info("Status update recorded",
				zap.String("tracking_id", orders[i].TrackingID),
				zap.String("status", string(orders[i].Status)),
				zap.String("location", req.Location),
				zap.String("description", req.Description),
			)
			updated := orders[i]
			return &updated, nil
		}
	}

	// Removed by another writer between the lookup and the update.
	return nil, ErrOrderNotFound
}

// load reads the collection, seeding it when it has never been written.
// Callers must hold s.mu.
func (s *OrderService) load(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.Load(ctx)
	if errors.Is(err, ports.ErrCollectionMissing) {
		return s.seed(ctx)
	}
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) seed(ctx context.Context) ([]domain.Order, error) {
	orders := domain.SampleOrders(s.seedCount, s.rand, s.now())

	if err := s.repo.Save(ctx, orders); err != nil {
		return nil, fmt.Errorf("seed orders: %w", err)
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.TrackingID)
	}
	s.logger.Info("Initialized sample order data", zap.Strings("tracking_ids", ids))

	return orders, nil
}

func (s *OrderService) nextTrackingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.GenerateTrackingID(s.rand)
}
