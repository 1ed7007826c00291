package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryReserve(t *testing.T) {
	db := getTestDB(t)
	repo := NewInventoryRepository(db)

	t.Run("DecrementsProductStock", func(t *testing.T) {
		productID := seedProduct(t, db, 100, 10)

		err := repo.Reserve(t.Context(), []domain.StockLine{
			{ProductID: productID, Quantity: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, 7, productStock(t, db, productID))
	})

	t.Run("DecrementsVariantStockNotProduct", func(t *testing.T) {
		productID := seedProduct(t, db, 100, 10)
		variantID := seedVariant(t, db, productID, nil, 5)

		err := repo.Reserve(t.Context(), []domain.StockLine{
			{ProductID: productID, VariantID: variantID, Quantity: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, variantStock(t, db, variantID))
		assert.Equal(t, 10, productStock(t, db, productID))
	})

	t.Run("InsufficientStockAbortsWholeBatch", func(t *testing.T) {
		okID := seedProduct(t, db, 100, 10)
		shortID := seedProduct(t, db, 100, 1)

		err := repo.Reserve(t.Context(), []domain.StockLine{
			{ProductID: okID, Quantity: 3},
			{ProductID: shortID, Quantity: 2},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		// The first line must have been rolled back.
		assert.Equal(t, 10, productStock(t, db, okID))
		assert.Equal(t, 1, productStock(t, db, shortID))
	})

	t.Run("ExactStockDrainsToZero", func(t *testing.T) {
		productID := seedProduct(t, db, 100, 4)

		err := repo.Reserve(t.Context(), []domain.StockLine{
			{ProductID: productID, Quantity: 4},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, productStock(t, db, productID))
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		err := repo.Reserve(t.Context(), []domain.StockLine{
			{ProductID: uuid.NewString(), Quantity: 1},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("UnknownVariant", func(t *testing.T) {
		productID := seedProduct(t, db, 100, 10)

		err := repo.Reserve(t.Context(), []domain.StockLine{
			{
				ProductID: productID,
				VariantID: uuid.NewString(),
				Quantity:  1,
			},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrVariantNotFound)
	})
}

func TestInventoryRestore(t *testing.T) {
	db := getTestDB(t)
	repo := NewInventoryRepository(db)

	t.Run("IncrementsStock", func(t *testing.T) {
		productID := seedProduct(t, db, 100, 2)
		variantID := seedVariant(t, db, productID, nil, 1)

		err := repo.Restore(t.Context(), []domain.StockLine{
			{ProductID: productID, Quantity: 3},
			{ProductID: productID, VariantID: variantID, Quantity: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, 5, productStock(t, db, productID))
		assert.Equal(t, 3, variantStock(t, db, variantID))
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		err := repo.Restore(t.Context(), []domain.StockLine{
			{ProductID: uuid.NewString(), Quantity: 1},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}
