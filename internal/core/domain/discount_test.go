package domain_test

import (
	"testing"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestOverlayPrice(t *testing.T) {
	t.Run("FixedSubtracts", func(t *testing.T) {
		d := domain.Discount{Kind: domain.DiscountFixed, Value: 30}
		assert.InDelta(t, 70, d.OverlayPrice(100), 1e-9)
	})

	t.Run("FixedFloorsAtZero", func(t *testing.T) {
		d := domain.Discount{Kind: domain.DiscountFixed, Value: 150}
		assert.Zero(t, d.OverlayPrice(100))
	})

	t.Run("PercentageScales", func(t *testing.T) {
		d := domain.Discount{Kind: domain.DiscountPercentage, Value: 25}
		assert.InDelta(t, 75, d.OverlayPrice(100), 1e-9)
	})

	t.Run("HundredPercentIsFree", func(t *testing.T) {
		d := domain.Discount{Kind: domain.DiscountPercentage, Value: 100}
		assert.InDelta(t, 0, d.OverlayPrice(100), 1e-9)
	})
}

func TestIsCampaign(t *testing.T) {
	assert.True(t, domain.Discount{}.IsCampaign())
	assert.False(t, domain.Discount{Code: "WELCOME10"}.IsCampaign())
}

func TestDiscountKindValid(t *testing.T) {
	assert.True(t, domain.DiscountFixed.Valid())
	assert.True(t, domain.DiscountPercentage.Valid())
	assert.False(t, domain.DiscountKind("BOGO").Valid())
}
