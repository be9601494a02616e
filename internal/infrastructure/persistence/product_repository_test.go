package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vendorverse/backend/internal/domain/catalog"
	"github.com/vendorverse/backend/internal/domain/shared"
	"github.com/vendorverse/backend/internal/domain/shared/valueobject"
)

func setupProductTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Product{}))
	return db
}

func seedProduct(t *testing.T, repo *GormProductRepository, sellerID uuid.UUID, title, sku string, price int64, stock int) *catalog.Product {
	t.Helper()
	money := valueobject.NewMoneyINR(decimal.NewFromInt(price))
	p, err := catalog.NewProduct(sellerID, title, "Seeded listing for repository tests", money, money, catalog.CategoryElectronics, stock, sku)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestGormProductRepository_FindByID(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	t.Run("finds saved product", func(t *testing.T) {
		p := seedProduct(t, repo, uuid.New(), "Wireless Mouse", "SKU-1", 599, 10)

		found, err := repo.FindByID(ctx, p.ID)

		require.NoError(t, err)
		assert.Equal(t, p.ID, found.ID)
		assert.Equal(t, "Wireless Mouse", found.Title)
		assert.Equal(t, 10, found.Inventory.Quantity)
		assert.True(t, found.SellingPrice.Equal(decimal.NewFromInt(599)))
	})

	t.Run("unknown ID yields not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindBySlug(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, repo, uuid.New(), "Mechanical Keyboard", "SKU-2", 2499, 5)

	found, err := repo.FindBySlug(ctx, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = repo.FindBySlug(ctx, "no-such-slug")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	a := seedProduct(t, repo, uuid.New(), "Item A", "SKU-A", 100, 1)
	b := seedProduct(t, repo, uuid.New(), "Item B", "SKU-B", 200, 2)

	t.Run("returns matching products", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("missing IDs are simply absent", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestGormProductRepository_List(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()

	cheap := seedProduct(t, repo, sellerID, "Budget Earphones", "SKU-CHEAP", 299, 50)
	mid := seedProduct(t, repo, sellerID, "Wireless Mouse", "SKU-MID", 599, 10)
	pricey := seedProduct(t, repo, uuid.New(), "Gaming Keyboard", "SKU-HIGH", 4999, 0)

	hidden := seedProduct(t, repo, sellerID, "Retired Gadget", "SKU-OLD", 999, 3)
	hidden.Deactivate()
	require.NoError(t, repo.Save(ctx, hidden))

	t.Run("active only excludes deactivated products", func(t *testing.T) {
		page, err := repo.List(ctx, catalog.ProductFilter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
	})

	t.Run("filter by seller", func(t *testing.T) {
		page, err := repo.List(ctx, catalog.ProductFilter{SellerID: &sellerID})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
	})

	t.Run("search matches title", func(t *testing.T) {
		page, err := repo.List(ctx, catalog.ProductFilter{Search: "keyboard"})
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, pricey.ID, page.Items[0].ID)
	})

	t.Run("price range filter", func(t *testing.T) {
		min := decimal.NewFromInt(300)
		max := decimal.NewFromInt(1000)
		page, err := repo.List(ctx, catalog.ProductFilter{MinPrice: &min, MaxPrice: &max, ActiveOnly: true})
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, mid.ID, page.Items[0].ID)
	})

	t.Run("in stock filter excludes zero inventory", func(t *testing.T) {
		page, err := repo.List(ctx, catalog.ProductFilter{InStock: true, ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("price ascending sort", func(t *testing.T) {
		page, err := repo.List(ctx, catalog.ProductFilter{ActiveOnly: true, SortBy: "price_asc"})
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(page.Items), 2)
		assert.Equal(t, cheap.ID, page.Items[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := repo.List(ctx, catalog.ProductFilter{
			Filter:     shared.Filter{Page: 2, PageSize: 2},
			ActiveOnly: true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, 2, page.TotalPages)
	})
}

func TestGormProductRepository_DecrementStock(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	t.Run("decrements available stock", func(t *testing.T) {
		p := seedProduct(t, repo, uuid.New(), "Wireless Mouse", "SKU-D1", 599, 10)

		require.NoError(t, repo.DecrementStock(ctx, p.ID, 4))

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, found.Inventory.Quantity)
	})

	t.Run("decrement to exactly zero allowed", func(t *testing.T) {
		p := seedProduct(t, repo, uuid.New(), "Last Unit", "SKU-D2", 100, 3)

		require.NoError(t, repo.DecrementStock(ctx, p.ID, 3))

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, found.Inventory.Quantity)
	})

	t.Run("oversell is rejected and stock untouched", func(t *testing.T) {
		p := seedProduct(t, repo, uuid.New(), "Scarce Item", "SKU-D3", 100, 2)

		err := repo.DecrementStock(ctx, p.ID, 3)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		found, findErr := repo.FindByID(ctx, p.ID)
		require.NoError(t, findErr)
		assert.Equal(t, 2, found.Inventory.Quantity)
	})

	t.Run("unknown product yields not found", func(t *testing.T) {
		err := repo.DecrementStock(ctx, uuid.New(), 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		p := seedProduct(t, repo, uuid.New(), "Whatever", "SKU-D4", 100, 2)
		err := repo.DecrementStock(ctx, p.ID, 0)
		assert.Error(t, err)
	})
}

func TestGormProductRepository_RestoreStock(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, repo, uuid.New(), "Wireless Mouse", "SKU-R1", 599, 5)

	require.NoError(t, repo.RestoreStock(ctx, p.ID, 3))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, found.Inventory.Quantity)

	assert.ErrorIs(t, repo.RestoreStock(ctx, uuid.New(), 1), shared.ErrNotFound)
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, repo, uuid.New(), "Doomed Product", "SKU-X", 100, 1)

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), shared.ErrNotFound)
}
