package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrDiscountNotFound  = errors.New("discount not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateCode     = errors.New("discount code already exists")
	ErrInvalidOrder      = errors.New("invalid order request")
	ErrInvalidDiscount   = errors.New("invalid discount")
	ErrInvalidPayload    = errors.New("invalid event payload")
	ErrInvalidSignature  = errors.New("event signature mismatch")
	ErrMissingSecret     = errors.New("payment events secret is not configured")
)
