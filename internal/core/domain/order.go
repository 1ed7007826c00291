package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped,
		OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type (
	Order struct {
		OrderID         string
		UserID          string
		Total           float64
		Status          OrderStatus
		PaymentID       string
		ShippingAddress Address
		Items           []OrderItem
		CreatedAt       time.Time
		UpdatedAt       time.Time
	}

	OrderItem struct {
		ProductID string
		VariantID string
		Quantity  int
		UnitPrice float64
	}

	// Address is an immutable snapshot captured at order time,
	// not a live reference to the user's address book.
	Address struct {
		Line1      string
		Line2      string
		City       string
		Region     string
		Country    string
		PostalCode string
		Phone      string
	}
)

// StockLines maps the order items onto the stock counters they reserved.
func (o Order) StockLines() []StockLine {
	ls := make([]StockLine, 0, len(o.Items))
	for _, it := range o.Items {
		ls = append(ls, StockLine{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}
	return ls
}

type (
	OrderRequest struct {
		UserID          string
		ShippingAddress Address
		Items           []OrderRequestItem
		PaymentID       string
	}

	OrderRequestItem struct {
		ProductID string
		VariantID string
		Quantity  int
	}
)

func (r OrderRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidOrder)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidOrder)
	}
	for i, it := range r.Items {
		if it.ProductID == "" {
			return fmt.Errorf(
				"%w: item %d: product id is required", ErrInvalidOrder, i,
			)
		}
		if it.Quantity < 1 {
			return fmt.Errorf(
				"%w: item %d: quantity must be at least 1", ErrInvalidOrder, i,
			)
		}
	}
	return nil
}

// OrderEvent is the notification payload emitted after an order is
// created or changes status.
type OrderEvent struct {
	OrderID    string
	UserID     string
	Status     OrderStatus
	Total      float64
	OccurredAt time.Time
}
