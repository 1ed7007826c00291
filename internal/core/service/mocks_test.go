package service_test

import (
	"context"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockUserStorage struct {
	mock.Mock
}

func (m *MockUserStorage) UserByID(
	ctx context.Context, userID string,
) (domain.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockOrderStorage struct {
	mock.Mock
}

func (m *MockOrderStorage) CreateOrder(
	ctx context.Context, orderID string, req domain.OrderRequest,
) (domain.Order, error) {
	args := m.Called(ctx, orderID, req)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderStorage) OrderByID(
	ctx context.Context, orderID string,
) (domain.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderStorage) OrdersByUser(
	ctx context.Context, userID string,
) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderStorage) OrderByPaymentRef(
	ctx context.Context, reference, transactionID string,
) (domain.Order, error) {
	args := m.Called(ctx, reference, transactionID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderStorage) ApproveOrder(
	ctx context.Context, orderID, transactionID string,
) (bool, error) {
	args := m.Called(ctx, orderID, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderStorage) CancelOrder(
	ctx context.Context, orderID, transactionID string,
) (bool, error) {
	args := m.Called(ctx, orderID, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderStorage) SetOrderStatus(
	ctx context.Context, orderID string, status domain.OrderStatus,
) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type MockDiscountStorage struct {
	mock.Mock
}

func (m *MockDiscountStorage) CreateDiscount(
	ctx context.Context, d domain.Discount,
) (domain.Discount, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.Discount), args.Error(1)
}

func (m *MockDiscountStorage) UpdateDiscount(
	ctx context.Context, d domain.Discount,
) (domain.Discount, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.Discount), args.Error(1)
}

func (m *MockDiscountStorage) DeleteDiscount(
	ctx context.Context, discountID string,
) error {
	args := m.Called(ctx, discountID)
	return args.Error(0)
}

func (m *MockDiscountStorage) DiscountByID(
	ctx context.Context, discountID string,
) (domain.Discount, error) {
	args := m.Called(ctx, discountID)
	return args.Get(0).(domain.Discount), args.Error(1)
}

func (m *MockDiscountStorage) ScopeProducts(
	ctx context.Context, discountID string,
) ([]domain.Product, error) {
	args := m.Called(ctx, discountID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockDiscountStorage) SetOverlayPrices(
	ctx context.Context, overlays map[string]float64,
) error {
	args := m.Called(ctx, overlays)
	return args.Error(0)
}

func (m *MockDiscountStorage) ClearOverlayPrices(
	ctx context.Context, productIDs []string,
) error {
	args := m.Called(ctx, productIDs)
	return args.Error(0)
}
