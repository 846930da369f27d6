package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/events"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// OrderService places orders from carts and moves them through fulfilment.
type OrderService struct {
	orders     repository.OrderRepository
	carts      repository.CartRepository
	products   repository.ProductRepository
	cache      *cache.Accessor
	ttl        cache.TTLPolicy
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// OrderDependencies bundles repositories for the order service.
type OrderDependencies struct {
	OrderRepo   repository.OrderRepository
	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	Caching     Caching
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:     deps.OrderRepo,
		carts:      deps.CartRepo,
		products:   deps.ProductRepo,
		cache:      deps.Caching.accessor(),
		ttl:        deps.Caching.TTL,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Checkout turns the caller's cart into a pending order. Stock is reserved
// per line; if any line cannot be reserved the earlier reservations are
// released and nothing is written.
func (s *OrderService) Checkout(ctx context.Context, userID string, address domain.ShippingAddress) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, translate(err, "cart")
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.NewValidationError("cart is empty", nil)
	}

	productIDs := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	order, err := cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.Order, error) {
		items, err := s.reserve(ctx, cart.Items)
		if err != nil {
			return nil, err
		}

		order := &domain.Order{
			UserID:          userID,
			Items:           items,
			Status:          domain.OrderStatusPending,
			ShippingAddress: address,
		}
		for _, item := range items {
			order.Total += item.Price * float64(item.Quantity)
		}
		if err := s.orders.Create(ctx, order); err != nil {
			s.release(ctx, items)
			return nil, translate(err, "order")
		}
		s.clearCart(ctx, userID)
		return order, nil
	}, func(o *domain.Order) []cache.Key { return cache.OrderPlacedKeys(o.ID, userID, productIDs...) })
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventOrderPlaced,
		SubjectID: order.ID,
		ActorID:   userID,
		Payload:   events.OrderPlacedPayload{UserID: userID, Items: len(order.Items), Total: order.Total},
	})
	return order, nil
}

// Get returns an order visible to the caller: its owner or an admin.
func (s *OrderService) Get(ctx context.Context, caller *domain.Identity, orderID string) (*domain.Order, error) {
	order, err := cache.ReadThrough(ctx, s.cache, cache.OrderKey(orderID), s.ttl.Volatile, func(ctx context.Context) (*domain.Order, error) {
		return s.orders.GetByID(ctx, orderID)
	})
	if err != nil {
		return nil, translate(err, "order")
	}
	if order.UserID != caller.ID && caller.Role != domain.RoleAdmin {
		return nil, forbidden("order belongs to another account")
	}
	return order, nil
}

// ListMine returns the caller's orders.
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.UserOrdersKey(userID), s.ttl.Volatile, func(ctx context.Context) ([]domain.Order, error) {
		return s.orders.ListByUser(ctx, userID)
	})
	return out, translate(err, "orders")
}

// List returns every order.
func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.OrdersAllKey, s.ttl.Aggregate, s.orders.List)
	return out, translate(err, "orders")
}

// UpdateStatus moves an order to status. Cancelled and delivered orders
// are final. Cancelling returns the reserved stock.
func (s *OrderService) UpdateStatus(ctx context.Context, actorID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid order status", map[string]any{"status": status})
	}
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, translate(err, "order")
	}
	if current.Status == domain.OrderStatusCancelled || current.Status == domain.OrderStatusDelivered {
		return nil, apperrors.NewConflict("order is already "+string(current.Status), map[string]any{"status": current.Status})
	}
	return s.transition(ctx, actorID, current, status)
}

// Cancel cancels the caller's own pending order.
func (s *OrderService) Cancel(ctx context.Context, caller *domain.Identity, orderID string) (*domain.Order, error) {
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, translate(err, "order")
	}
	if current.UserID != caller.ID {
		return nil, forbidden("order belongs to another account")
	}
	if current.Status != domain.OrderStatusPending {
		return nil, apperrors.NewConflict("only pending orders can be cancelled", map[string]any{"status": current.Status})
	}
	return s.transition(ctx, caller.ID, current, domain.OrderStatusCancelled)
}

// transition applies status guarded on the status read by the caller, so a
// concurrent change surfaces as a conflict instead of being overwritten.
func (s *OrderService) transition(ctx context.Context, actorID string, current *domain.Order, status domain.OrderStatus) (*domain.Order, error) {
	updated, err := cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.Order, error) {
		updated, err := s.orders.UpdateStatus(ctx, current.ID, status, current.Status)
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperrors.NewConflict("order status changed concurrently", nil)
		}
		if err != nil {
			return nil, translate(err, "order")
		}
		if status == domain.OrderStatusCancelled {
			s.release(ctx, updated.Items)
		}
		return updated, nil
	}, func(o *domain.Order) []cache.Key {
		keys := cache.OrderWriteKeys(o.ID, o.UserID)
		if status == domain.OrderStatusCancelled {
			for _, item := range o.Items {
				keys = append(keys, cache.ProductWriteKeys(item.ProductID)...)
			}
		}
		return keys
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventOrderStatusChanged,
		SubjectID: updated.ID,
		ActorID:   actorID,
		Payload: events.OrderStatusChangedPayload{
			UserID:    updated.UserID,
			OldStatus: current.Status,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

// reserve takes stock for every line, pricing each from the current
// product document.
func (s *OrderService) reserve(ctx context.Context, lines []domain.CartItem) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err == nil {
			err = s.products.ReserveStock(ctx, line.ProductID, line.Quantity)
		}
		if err != nil {
			s.release(ctx, items)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, apperrors.NewConflict("insufficient stock", map[string]any{"productId": line.ProductID})
			}
			return nil, translate(err, "product")
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}

const (
	cartClearAttempts = 3
	cartClearBackoff  = 50 * time.Millisecond
)

// clearCart empties the cart once the order exists. It runs detached from
// the request and retries; a cart left full could be checked out again.
func (s *OrderService) clearCart(ctx context.Context, userID string) {
	ctx = context.WithoutCancel(ctx)
	var err error
	for attempt := 1; attempt <= cartClearAttempts; attempt++ {
		if _, err = s.carts.Clear(ctx, userID); err == nil {
			return
		}
		s.logger.Warn("cart clear after checkout failed",
			zap.String("user_id", userID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < cartClearAttempts {
			time.Sleep(time.Duration(attempt) * cartClearBackoff)
		}
	}
	s.logger.Error("cart left populated after checkout", zap.String("user_id", userID), zap.Error(err))
}

func (s *OrderService) release(ctx context.Context, items []domain.OrderItem) {
	ctx = context.WithoutCancel(ctx)
	for _, item := range items {
		if err := s.products.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("stock release failed",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}
