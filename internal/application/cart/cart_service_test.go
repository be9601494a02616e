package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendorverse/backend/internal/domain/cart"
	"github.com/vendorverse/backend/internal/domain/catalog"
	"github.com/vendorverse/backend/internal/domain/shared"
	"github.com/vendorverse/backend/internal/domain/shared/valueobject"
)

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter catalog.ProductFilter) (*shared.Paginated[*catalog.Product], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*catalog.Product]), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func newTestCartService(cartRepo *MockCartRepository, productRepo *MockProductRepository) *CartService {
	return NewCartService(cartRepo, productRepo, zap.NewNop())
}

func mustProduct(t *testing.T, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(uuid.New(), "Test Product", "A product used in tests",
		valueobject.NewMoneyINR(decimal.NewFromInt(500)),
		valueobject.NewMoneyINR(decimal.NewFromInt(400)),
		catalog.CategoryHome, stock, "TP-01")
	require.NoError(t, err)
	return product
}

func mustCart(t *testing.T, userID uuid.UUID) *cart.Cart {
	t.Helper()
	c, err := cart.NewCart(userID)
	require.NoError(t, err)
	return c
}

func TestCartService_Get(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns existing cart", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		svc := newTestCartService(cartRepo, new(MockProductRepository))
		c := mustCart(t, userID)

		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)

		resp, err := svc.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, resp.ID)
	})

	t.Run("creates empty cart on first access", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		svc := newTestCartService(cartRepo, new(MockProductRepository))

		cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)
		cartRepo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

		resp, err := svc.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, resp.UserID)
		assert.Empty(t, resp.Items)
		cartRepo.AssertExpectations(t)
	})
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("adds a product snapshot to the cart", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		svc := newTestCartService(cartRepo, productRepo)
		product := mustProduct(t, 10)
		c := mustCart(t, userID)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		cartRepo.On("Save", ctx, c).Return(nil)

		resp, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		assert.Equal(t, product.Title, resp.Items[0].Title)
		assert.True(t, resp.Items[0].UnitPrice.Equal(product.SellingPrice))
		assert.Equal(t, 2, resp.ItemCount)
	})

	t.Run("checks combined quantity against stock", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		svc := newTestCartService(cartRepo, productRepo)
		product := mustProduct(t, 10)
		c := mustCart(t, userID)
		require.NoError(t, c.AddItem(product.ID, product.SellerID, product.Title, "",
			valueobject.NewMoneyINR(product.SellingPrice), 8))

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)

		_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 3})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		cartRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects inactive products", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		svc := newTestCartService(cartRepo, productRepo)
		product := mustProduct(t, 10)
		product.Deactivate()

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 1})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_UNAVAILABLE", domainErr.Code)
	})

	t.Run("rejects unknown products", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		svc := newTestCartService(cartRepo, productRepo)
		missing := uuid.New()

		productRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: missing, Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCartService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	setup := func(t *testing.T, stock int) (*CartService, *MockCartRepository, *MockProductRepository, *catalog.Product, *cart.Cart) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		svc := newTestCartService(cartRepo, productRepo)
		product := mustProduct(t, stock)
		c := mustCart(t, userID)
		require.NoError(t, c.AddItem(product.ID, product.SellerID, product.Title, "",
			valueobject.NewMoneyINR(product.SellingPrice), 2))
		return svc, cartRepo, productRepo, product, c
	}

	t.Run("sets absolute quantity after a stock check", func(t *testing.T) {
		svc, cartRepo, productRepo, product, c := setup(t, 10)

		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("Save", ctx, c).Return(nil)

		resp, err := svc.UpdateItem(ctx, userID, product.ID, UpdateItemRequest{Quantity: 5})
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Items[0].Quantity)
	})

	t.Run("rejects quantities beyond stock", func(t *testing.T) {
		svc, cartRepo, productRepo, product, c := setup(t, 4)

		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := svc.UpdateItem(ctx, userID, product.ID, UpdateItemRequest{Quantity: 5})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("zero quantity removes the line without a stock check", func(t *testing.T) {
		svc, cartRepo, _, product, c := setup(t, 10)

		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		cartRepo.On("Save", ctx, c).Return(nil)

		resp, err := svc.UpdateItem(ctx, userID, product.ID, UpdateItemRequest{Quantity: 0})
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
	})

	t.Run("shrinking a line skips the stock check", func(t *testing.T) {
		// Stock has dropped below what is already in the cart; lowering
		// the line must still succeed.
		svc, cartRepo, productRepo, product, c := setup(t, 1)

		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		cartRepo.On("Save", ctx, c).Return(nil)

		resp, err := svc.UpdateItem(ctx, userID, product.ID, UpdateItemRequest{Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Items[0].Quantity)
		productRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("absent product is a persisted no-op", func(t *testing.T) {
		svc, cartRepo, productRepo, _, c := setup(t, 10)

		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		cartRepo.On("Save", ctx, c).Return(nil)

		resp, err := svc.UpdateItem(ctx, userID, uuid.New(), UpdateItemRequest{Quantity: 3})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 2, resp.Items[0].Quantity)
		productRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		cartRepo.AssertCalled(t, "Save", ctx, c)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cartRepo := new(MockCartRepository)
	svc := newTestCartService(cartRepo, new(MockProductRepository))
	product := mustProduct(t, 10)
	c := mustCart(t, userID)
	require.NoError(t, c.AddItem(product.ID, product.SellerID, product.Title, "",
		valueobject.NewMoneyINR(product.SellingPrice), 1))

	cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
	cartRepo.On("Save", ctx, c).Return(nil)

	resp, err := svc.RemoveItem(ctx, userID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	// Removing a product that is not in the cart is a no-op
	resp, err = svc.RemoveItem(ctx, userID, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestCartService_Clear(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cartRepo := new(MockCartRepository)
	svc := newTestCartService(cartRepo, new(MockProductRepository))
	product := mustProduct(t, 10)
	c := mustCart(t, userID)
	require.NoError(t, c.AddItem(product.ID, product.SellerID, product.Title, "",
		valueobject.NewMoneyINR(product.SellingPrice), 3))

	cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
	cartRepo.On("Save", ctx, c).Return(nil)

	resp, err := svc.Clear(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.TotalAmount.IsZero())
}
