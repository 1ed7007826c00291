package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
)

var _ port.OrderPlacer = (*OrdersService)(nil)
var _ port.OrderProvider = (*OrdersService)(nil)
var _ port.OrderStatusUpdater = (*OrdersService)(nil)

// OrdersService validates order requests and drives the atomic order
// transaction: user resolution, per-item pricing, stock reservation
// and the order insert succeed together or not at all.
type OrdersService struct {
	users  port.UserStorage
	orders port.OrderStorage
	events port.OrderEventsProducer
}

func NewOrdersService(
	users port.UserStorage,
	orders port.OrderStorage,
	events port.OrderEventsProducer,
) OrdersService {
	return OrdersService{users, orders, events}
}

func (s OrdersService) PlaceOrder(
	ctx context.Context, req domain.OrderRequest,
) (domain.Order, error) {
	const op = "OrdersService.PlaceOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := req.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.users.UserByID(ctx, req.UserID); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	orderID := uuid.NewString()
	order, err := s.orders.CreateOrder(ctx, orderID, req)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order created",
		"orderID", order.OrderID,
		"userID", order.UserID,
		"total", order.Total,
		"nItems", len(order.Items),
	)

	notifyOrderEvent(s.events, domain.OrderEvent{
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		Status:     order.Status,
		Total:      order.Total,
		OccurredAt: time.Now(),
	})

	return order, nil
}

func (s OrdersService) Order(
	ctx context.Context, orderID string,
) (domain.Order, error) {
	const op = "OrdersService.Order"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.orders.OrderByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (s OrdersService) UserOrders(
	ctx context.Context, userID string,
) ([]domain.Order, error) {
	const op = "OrdersService.UserOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.orders.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// UpdateOrderStatus is the administrative escape hatch: it accepts any
// valid target status without state-machine constraints.
func (s OrdersService) UpdateOrderStatus(
	ctx context.Context, orderID string, status domain.OrderStatus,
) error {
	const op = "OrdersService.UpdateOrderStatus"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !status.Valid() {
		return fmt.Errorf(
			"%s: %w: unknown status %q", op, domain.ErrInvalidOrder, status,
		)
	}

	if err := s.orders.SetOrderStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order status updated", "orderID", orderID, "status", status)
	return nil
}
