package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorverse/backend/internal/domain/cart"
	"github.com/vendorverse/backend/internal/domain/catalog"
	"github.com/vendorverse/backend/internal/domain/shared"
	"github.com/vendorverse/backend/internal/domain/shared/valueobject"
)

// CartService handles shopping cart operations
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Get returns the user's cart, creating an empty one on first access
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.findOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// AddItem adds a product to the cart. The stock check covers the COMBINED
// quantity (already in cart plus requested), so repeated small adds cannot
// pile past available stock.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is no longer available")
	}

	c, err := s.findOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	combined := c.Quantity(req.ProductID) + req.Quantity
	if !product.InStock(combined) {
		return nil, shared.ErrInsufficientStock
	}

	unitPrice := valueobject.NewMoneyINR(product.SellingPrice)
	if err := c.AddItem(product.ID, product.SellerID, product.Title, product.PrimaryImage(), unitPrice, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// UpdateItem sets a line's absolute quantity; zero removes the line.
// Stock is re-checked only when the quantity grows; shrinking a line
// never fails on stock.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if current := c.Quantity(productID); current > 0 && req.Quantity > current {
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !product.InStock(req.Quantity) {
			return nil, shared.ErrInsufficientStock
		}
	}

	if err := c.UpdateQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// RemoveItem removes a product line from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveItem(productID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return s.Get(ctx, userID)
		}
		return nil, err
	}

	c.Clear()
	if err := s.cartRepo.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

func (s *CartService) findOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	c, err = cart.NewCart(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		s.logger.Error("Failed to create cart", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}
