package httphandler_test

import (
	"context"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockOrdersService struct {
	mock.Mock
}

func (m *MockOrdersService) PlaceOrder(
	ctx context.Context, req domain.OrderRequest,
) (domain.Order, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrdersService) Order(
	ctx context.Context, orderID string,
) (domain.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrdersService) UserOrders(
	ctx context.Context, userID string,
) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrdersService) UpdateOrderStatus(
	ctx context.Context, orderID string, status domain.OrderStatus,
) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) ReconcileTransaction(
	ctx context.Context, evt domain.TransactionEvent,
) (domain.ReconcileOutcome, error) {
	args := m.Called(ctx, evt)
	return args.Get(0).(domain.ReconcileOutcome), args.Error(1)
}

type MockDiscountManager struct {
	mock.Mock
}

func (m *MockDiscountManager) CreateDiscount(
	ctx context.Context, d domain.Discount,
) (domain.Discount, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.Discount), args.Error(1)
}

func (m *MockDiscountManager) UpdateDiscount(
	ctx context.Context, d domain.Discount,
) (domain.Discount, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.Discount), args.Error(1)
}

func (m *MockDiscountManager) DeleteDiscount(
	ctx context.Context, discountID string,
) error {
	args := m.Called(ctx, discountID)
	return args.Error(0)
}
