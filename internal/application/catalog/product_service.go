package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorverse/backend/internal/domain/catalog"
	"github.com/vendorverse/backend/internal/domain/shared"
	"github.com/vendorverse/backend/internal/domain/shared/valueobject"
)

// ProductService handles catalog business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a new product listing owned by the seller
func (s *ProductService) Create(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	mrp := valueobject.NewMoneyINR(req.MRP)
	sellingPrice := valueobject.NewMoneyINR(req.SellingPrice)

	product, err := catalog.NewProduct(sellerID, req.Title, req.Description, mrp, sellingPrice,
		catalog.Category(req.Category), req.Quantity, req.SKU)
	if err != nil {
		return nil, err
	}

	product.SetBrand(req.Brand, req.Subcategory)
	if len(req.Images) > 0 {
		product.SetImages(toImages(req.Images))
	}
	if len(req.Tags) > 0 {
		product.Tags = req.Tags
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", sellerID.String()))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySlug retrieves a product by its URL slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination.
// Public listings only include active products.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*ProductListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
		Category:   catalog.Category(filter.Category),
		SellerID:   filter.SellerID,
		Brand:      filter.Brand,
		MinPrice:   filter.MinPrice,
		MaxPrice:   filter.MaxPrice,
		Featured:   filter.Featured,
		ActiveOnly: filter.ActiveOnly,
		InStock:    filter.InStock,
		SortBy:     filter.SortBy,
	}

	page, err := s.productRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(page.Items))
	for i, p := range page.Items {
		items[i] = ToProductResponse(p)
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update applies a partial update to a product the seller owns.
// Admins may update any product.
func (s *ProductService) Update(ctx context.Context, actorID uuid.UUID, isAdmin bool, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && !product.IsOwnedBy(actorID) {
		return nil, shared.ErrForbidden
	}

	if req.Title != nil {
		if err := product.Rename(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := product.SetDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.MRP != nil || req.SellingPrice != nil {
		mrp := product.MRP
		sellingPrice := product.SellingPrice
		if req.MRP != nil {
			mrp = *req.MRP
		}
		if req.SellingPrice != nil {
			sellingPrice = *req.SellingPrice
		}
		if err := product.SetPricing(valueobject.NewMoneyINR(mrp), valueobject.NewMoneyINR(sellingPrice)); err != nil {
			return nil, err
		}
	}
	if req.Brand != nil || req.Subcategory != nil {
		brand := product.Brand
		subcategory := product.Subcategory
		if req.Brand != nil {
			brand = *req.Brand
		}
		if req.Subcategory != nil {
			subcategory = *req.Subcategory
		}
		product.SetBrand(brand, subcategory)
	}
	if req.Images != nil {
		product.SetImages(toImages(req.Images))
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.Quantity != nil {
		if err := product.SetStock(*req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}
	if req.IsFeatured != nil {
		// Featuring is a marketplace decision, not a seller one
		if !isAdmin {
			return nil, shared.ErrForbidden
		}
		product.SetFeatured(*req.IsFeatured)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err))
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product listing the seller owns
func (s *ProductService) Delete(ctx context.Context, actorID uuid.UUID, isAdmin bool, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if !isAdmin && !product.IsOwnedBy(actorID) {
		return shared.ErrForbidden
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		s.logger.Error("Failed to delete product", zap.Error(err))
		return err
	}

	s.logger.Info("Product deleted",
		zap.String("product_id", productID.String()),
		zap.String("actor_id", actorID.String()))
	return nil
}

// RecordRating folds a review rating into the product's aggregate rating
func (s *ProductService) RecordRating(ctx context.Context, productID uuid.UUID, rating int) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.RecordRating(rating); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}
