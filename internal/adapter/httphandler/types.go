package httphandler

import "time"

type (
	CreateOrderRequest struct {
		UserID          string            `json:"userId"`
		ShippingAddress Address           `json:"shippingAddress"`
		Items           []CreateOrderItem `json:"items"`
		PaymentID       string            `json:"paymentId,omitempty"`
	}

	CreateOrderItem struct {
		ProductID string `json:"productId"`
		VariantID string `json:"variantId,omitempty"`
		Quantity  int    `json:"quantity"`
	}

	Address struct {
		Line1      string `json:"line1"`
		Line2      string `json:"line2,omitempty"`
		City       string `json:"city"`
		Region     string `json:"region,omitempty"`
		Country    string `json:"country"`
		PostalCode string `json:"postalCode,omitempty"`
		Phone      string `json:"phone,omitempty"`
	}

	Order struct {
		ID              string      `json:"id"`
		UserID          string      `json:"userId"`
		Total           float64     `json:"total"`
		Status          string      `json:"status"`
		PaymentID       string      `json:"paymentId,omitempty"`
		ShippingAddress Address     `json:"shippingAddress"`
		Items           []OrderItem `json:"items"`
		CreatedAt       time.Time   `json:"createdAt"`
		UpdatedAt       time.Time   `json:"updatedAt"`
	}

	OrderItem struct {
		ProductID string  `json:"productId"`
		VariantID string  `json:"variantId,omitempty"`
		Quantity  int     `json:"quantity"`
		UnitPrice float64 `json:"price"`
	}

	UpdateOrderStatusRequest struct {
		Status string `json:"status"`
	}
)

// Gateway webhook payload shape.
type (
	WebhookEvent struct {
		Event       string           `json:"event"`
		Data        WebhookData      `json:"data"`
		Timestamp   int64            `json:"timestamp"`
		Signature   WebhookSignature `json:"signature"`
		Environment string           `json:"environment"`
	}

	WebhookData struct {
		Transaction *WebhookTransaction `json:"transaction"`
	}

	WebhookTransaction struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		Reference     string `json:"reference"`
		AmountInCents int64  `json:"amount_in_cents"`
		Currency      string `json:"currency"`
	}

	WebhookSignature struct {
		Checksum string `json:"checksum"`
	}

	WebhookResponse struct {
		Status string `json:"status"`
	}
)

type (
	DiscountRequest struct {
		Kind          string  `json:"kind"`
		Value         float64 `json:"value"`
		Code          string  `json:"code,omitempty"`
		StartDate     string  `json:"startDate"`
		EndDate       string  `json:"endDate"`
		IsActive      bool    `json:"isActive"`
		ProductIDs    []string `json:"productIds,omitempty"`
		CollectionIDs []string `json:"collectionIds,omitempty"`
	}

	Discount struct {
		ID            string   `json:"id"`
		Kind          string   `json:"kind"`
		Value         float64  `json:"value"`
		Code          string   `json:"code,omitempty"`
		StartDate     string   `json:"startDate"`
		EndDate       string   `json:"endDate"`
		IsActive      bool     `json:"isActive"`
		ProductIDs    []string `json:"productIds,omitempty"`
		CollectionIDs []string `json:"collectionIds,omitempty"`
	}
)
