package port

import (
	"context"

	"github.com/mfranco-dev/tienda/internal/core/domain"
)

// Inbound ports.

type OrderPlacer interface {
	PlaceOrder(context.Context, domain.OrderRequest) (domain.Order, error)
}

type OrderProvider interface {
	Order(context.Context, string) (domain.Order, error)
	UserOrders(context.Context, string) ([]domain.Order, error)
}

type OrderStatusUpdater interface {
	UpdateOrderStatus(context.Context, string, domain.OrderStatus) error
}

type TransactionReconciler interface {
	ReconcileTransaction(
		context.Context, domain.TransactionEvent,
	) (domain.ReconcileOutcome, error)
}

type DiscountManager interface {
	CreateDiscount(context.Context, domain.Discount) (domain.Discount, error)
	UpdateDiscount(context.Context, domain.Discount) (domain.Discount, error)
	DeleteDiscount(context.Context, string) error
}

// Outbound ports.

type UserStorage interface {
	UserByID(context.Context, string) (domain.User, error)
}

// InventoryStorage is the stock ledger contract: each call is atomic
// over all lines, so a batch reserves fully or not at all.
type InventoryStorage interface {
	Reserve(ctx context.Context, lines []domain.StockLine) error
	Restore(ctx context.Context, lines []domain.StockLine) error
}

type OrderStorage interface {
	// CreateOrder executes the whole order transaction: per-item
	// resolution, pricing, stock reservation and the order insert,
	// all-or-nothing.
	CreateOrder(
		ctx context.Context, orderID string, req domain.OrderRequest,
	) (domain.Order, error)

	OrderByID(context.Context, string) (domain.Order, error)
	OrdersByUser(context.Context, string) ([]domain.Order, error)

	// OrderByPaymentRef matches an order by its own identity or by a
	// previously recorded gateway transaction id.
	OrderByPaymentRef(
		ctx context.Context, reference, transactionID string,
	) (domain.Order, error)

	// ApproveOrder moves PENDING -> PROCESSING and records the gateway
	// transaction id. Reports false when the order was not in PENDING.
	ApproveOrder(
		ctx context.Context, orderID, transactionID string,
	) (bool, error)

	// CancelOrder moves any non-CANCELLED status to CANCELLED, records
	// the transaction id and restores every item's stock in the same
	// transaction. Reports false when the order was already cancelled.
	CancelOrder(
		ctx context.Context, orderID, transactionID string,
	) (bool, error)

	SetOrderStatus(context.Context, string, domain.OrderStatus) error
}

type DiscountStorage interface {
	CreateDiscount(context.Context, domain.Discount) (domain.Discount, error)
	UpdateDiscount(context.Context, domain.Discount) (domain.Discount, error)
	DeleteDiscount(context.Context, string) error
	DiscountByID(context.Context, string) (domain.Discount, error)

	// ScopeProducts resolves the discount scope: products directly
	// attached plus members of attached collections, deduplicated.
	ScopeProducts(context.Context, string) ([]domain.Product, error)

	SetOverlayPrices(context.Context, map[string]float64) error
	ClearOverlayPrices(context.Context, []string) error
}

type OrderEventsProducer interface {
	ProduceOrderEvent(context.Context, domain.OrderEvent) error
}
