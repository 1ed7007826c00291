package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCollection(t *testing.T, db SQLDB, productIDs ...string) string {
	t.Helper()

	collectionID := uuid.NewString()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO collections (collection_id, name)
		VALUES ($1, 'Test Collection');`, collectionID)
	require.NoError(t, err)

	for _, productID := range productIDs {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO collection_products (collection_id, product_id)
			VALUES ($1, $2);`, collectionID, productID)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		db.ExecContext(context.Background(),
			`DELETE FROM collections WHERE collection_id = $1;`, collectionID)
	})
	return collectionID
}

func discountFixture() domain.Discount {
	return domain.Discount{
		DiscountID: uuid.NewString(),
		Kind:       domain.DiscountPercentage,
		Value:      20,
		StartsAt:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		Active:     true,
	}
}

func TestDiscountLifecycle(t *testing.T) {
	db := getTestDB(t)
	repo := NewDiscountsRepository(db)

	t.Run("CreateAndReadBack", func(t *testing.T) {
		productID := seedProduct(t, db, 100, 10)

		d := discountFixture()
		d.ProductIDs = []string{productID}

		created, err := repo.CreateDiscount(t.Context(), d)
		require.NoError(t, err)
		t.Cleanup(func() {
			repo.DeleteDiscount(context.Background(), created.DiscountID)
		})

		got, err := repo.DiscountByID(t.Context(), created.DiscountID)
		require.NoError(t, err)
		assert.Equal(t, domain.DiscountPercentage, got.Kind)
		assert.InDelta(t, 20, got.Value, 1e-9)
		assert.True(t, got.Active)
		assert.Equal(t, []string{productID}, got.ProductIDs)
	})

	t.Run("DuplicateCode", func(t *testing.T) {
		code := "CODE-" + uuid.NewString()

		first := discountFixture()
		first.Code = code
		_, err := repo.CreateDiscount(t.Context(), first)
		require.NoError(t, err)
		t.Cleanup(func() {
			repo.DeleteDiscount(context.Background(), first.DiscountID)
		})

		second := discountFixture()
		second.Code = code
		_, err = repo.CreateDiscount(t.Context(), second)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDuplicateCode)
	})

	t.Run("UpdateReplacesScope", func(t *testing.T) {
		oldID := seedProduct(t, db, 100, 10)
		newID := seedProduct(t, db, 100, 10)

		d := discountFixture()
		d.ProductIDs = []string{oldID}
		_, err := repo.CreateDiscount(t.Context(), d)
		require.NoError(t, err)
		t.Cleanup(func() {
			repo.DeleteDiscount(context.Background(), d.DiscountID)
		})

		d.ProductIDs = []string{newID}
		_, err = repo.UpdateDiscount(t.Context(), d)
		require.NoError(t, err)

		got, err := repo.DiscountByID(t.Context(), d.DiscountID)
		require.NoError(t, err)
		assert.Equal(t, []string{newID}, got.ProductIDs)
	})

	t.Run("UpdateUnknownDiscount", func(t *testing.T) {
		_, err := repo.UpdateDiscount(t.Context(), discountFixture())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDiscountNotFound)
	})

	t.Run("DeleteUnknownDiscount", func(t *testing.T) {
		err := repo.DeleteDiscount(t.Context(), uuid.NewString())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDiscountNotFound)
	})
}

func TestScopeProducts(t *testing.T) {
	db := getTestDB(t)
	repo := NewDiscountsRepository(db)

	// One product attached directly, one via a collection and one in
	// both ways. The union must come back deduplicated.
	directID := seedProduct(t, db, 100, 10)
	memberID := seedProduct(t, db, 50, 10)
	bothID := seedProduct(t, db, 75, 10)
	collectionID := seedCollection(t, db, memberID, bothID)

	d := discountFixture()
	d.ProductIDs = []string{directID, bothID}
	d.CollectionIDs = []string{collectionID}

	_, err := repo.CreateDiscount(t.Context(), d)
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.DeleteDiscount(context.Background(), d.DiscountID)
	})

	products, err := repo.ScopeProducts(t.Context(), d.DiscountID)
	require.NoError(t, err)
	require.Len(t, products, 3)

	ids := make(map[string]bool, len(products))
	for _, p := range products {
		ids[p.ProductID] = true
	}
	assert.True(t, ids[directID])
	assert.True(t, ids[memberID])
	assert.True(t, ids[bothID])
}

func TestOverlayPrices(t *testing.T) {
	db := getTestDB(t)
	repo := NewDiscountsRepository(db)

	overlayPrice := func(productID string) *float64 {
		var p *float64
		err := db.QueryRowContext(context.Background(), `
			SELECT discount_price FROM products WHERE product_id = $1;`,
			productID,
		).Scan(&p)
		require.NoError(t, err)
		return p
	}

	aID := seedProduct(t, db, 100, 10)
	bID := seedProduct(t, db, 50, 10)

	err := repo.SetOverlayPrices(t.Context(), map[string]float64{
		aID: 80, bID: 40,
	})
	require.NoError(t, err)

	require.NotNil(t, overlayPrice(aID))
	assert.InDelta(t, 80, *overlayPrice(aID), 1e-9)
	require.NotNil(t, overlayPrice(bID))
	assert.InDelta(t, 40, *overlayPrice(bID), 1e-9)

	err = repo.ClearOverlayPrices(t.Context(), []string{aID, bID})
	require.NoError(t, err)

	assert.Nil(t, overlayPrice(aID))
	assert.Nil(t, overlayPrice(bID))
}
