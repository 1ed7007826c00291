package domain_test

import (
	"testing"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitPrice(t *testing.T) {
	price := func(v float64) *float64 { return &v }

	p := domain.Product{ProductID: "prod-1", Price: 100}

	t.Run("BasePriceWithoutVariant", func(t *testing.T) {
		assert.InDelta(t, 100, domain.UnitPrice(p, nil), 1e-9)
	})

	t.Run("VariantOverrideWins", func(t *testing.T) {
		v := domain.Variant{VariantID: "var-1", Price: price(120)}
		assert.InDelta(t, 120, domain.UnitPrice(p, &v), 1e-9)
	})

	t.Run("VariantWithoutOverrideInherits", func(t *testing.T) {
		v := domain.Variant{VariantID: "var-1"}
		assert.InDelta(t, 100, domain.UnitPrice(p, &v), 1e-9)
	})

	t.Run("OverlayNeverConsulted", func(t *testing.T) {
		discounted := p
		discounted.DiscountPrice = price(60)
		assert.InDelta(t, 100, domain.UnitPrice(discounted, nil), 1e-9)
	})
}

func TestOrderRequestValidate(t *testing.T) {
	valid := domain.OrderRequest{
		UserID: "user-1",
		Items: []domain.OrderRequestItem{
			{ProductID: "prod-1", Quantity: 1},
		},
	}

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("MissingUser", func(t *testing.T) {
		r := valid
		r.UserID = ""
		assert.ErrorIs(t, r.Validate(), domain.ErrInvalidOrder)
	})

	t.Run("NoItems", func(t *testing.T) {
		r := valid
		r.Items = nil
		assert.ErrorIs(t, r.Validate(), domain.ErrInvalidOrder)
	})

	t.Run("MissingProductID", func(t *testing.T) {
		r := valid
		r.Items = []domain.OrderRequestItem{{Quantity: 1}}
		assert.ErrorIs(t, r.Validate(), domain.ErrInvalidOrder)
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		r := valid
		r.Items = []domain.OrderRequestItem{
			{ProductID: "prod-1", Quantity: 0},
		}
		assert.ErrorIs(t, r.Validate(), domain.ErrInvalidOrder)
	})
}

func TestStockLines(t *testing.T) {
	o := domain.Order{
		Items: []domain.OrderItem{
			{ProductID: "prod-1", Quantity: 2, UnitPrice: 10},
			{ProductID: "prod-2", VariantID: "var-1", Quantity: 1, UnitPrice: 5},
		},
	}

	lines := o.StockLines()
	require.Len(t, lines, 2)
	assert.Equal(t, domain.StockLine{
		ProductID: "prod-1", Quantity: 2,
	}, lines[0])
	assert.Equal(t, domain.StockLine{
		ProductID: "prod-2", VariantID: "var-1", Quantity: 1,
	}, lines[1])
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []domain.OrderStatus{
		domain.OrderPending, domain.OrderProcessing, domain.OrderShipped,
		domain.OrderDelivered, domain.OrderCancelled,
	} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, domain.OrderStatus("REFUNDED").Valid())
}
