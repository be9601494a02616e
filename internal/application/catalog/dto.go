package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorverse/backend/internal/domain/catalog"
	"github.com/vendorverse/backend/internal/domain/shared"
)

// CreateProductRequest represents a request to create a product listing
type CreateProductRequest struct {
	Title        string          `json:"title" binding:"required,min=1,max=200"`
	Description  string          `json:"description" binding:"required,min=1,max=5000"`
	MRP          decimal.Decimal `json:"mrp" binding:"required"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"required"`
	Category     string          `json:"category" binding:"required"`
	Subcategory  string          `json:"subcategory"`
	Brand        string          `json:"brand"`
	Images       []ImageInput    `json:"images"`
	Quantity     int             `json:"quantity" binding:"min=0"`
	SKU          string          `json:"sku"`
	Tags         []string        `json:"tags"`
}

// ImageInput represents a product image in requests
type ImageInput struct {
	URL       string `json:"url" binding:"required,url"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"is_primary"`
}

// UpdateProductRequest represents a partial product update.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	MRP          *decimal.Decimal `json:"mrp"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	Subcategory  *string          `json:"subcategory"`
	Brand        *string          `json:"brand"`
	Images       []ImageInput     `json:"images"`
	Quantity     *int             `json:"quantity"`
	IsActive     *bool            `json:"is_active"`
	IsFeatured   *bool            `json:"is_featured"`
	Tags         []string         `json:"tags"`
}

// ProductListFilter represents filter options for product listing
type ProductListFilter struct {
	Search     string           `form:"search"`
	Category   string           `form:"category"`
	Brand      string           `form:"brand"`
	SellerID   *uuid.UUID       `form:"seller_id"`
	MinPrice   *decimal.Decimal `form:"min_price"`
	MaxPrice   *decimal.Decimal `form:"max_price"`
	Featured   *bool            `form:"featured"`
	InStock    bool             `form:"in_stock"`
	SortBy     string           `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc rating newest"`
	Page       int              `form:"page" binding:"omitempty,min=1"`
	PageSize   int              `form:"page_size" binding:"omitempty,min=1,max=100"`
	ActiveOnly bool             `form:"-"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	MRP             decimal.Decimal `json:"mrp"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	DiscountPercent int             `json:"discount_percent"`
	Category        string          `json:"category"`
	Subcategory     string          `json:"subcategory,omitempty"`
	Brand           string          `json:"brand,omitempty"`
	Images          []catalog.Image `json:"images"`
	SellerID        uuid.UUID       `json:"seller_id"`
	Quantity        int             `json:"quantity"`
	SKU             string          `json:"sku,omitempty"`
	InStock         bool            `json:"in_stock"`
	LowStock        bool            `json:"low_stock"`
	RatingAverage   decimal.Decimal `json:"rating_average"`
	RatingCount     int             `json:"rating_count"`
	Tags            []string        `json:"tags,omitempty"`
	IsActive        bool            `json:"is_active"`
	IsFeatured      bool            `json:"is_featured"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse is a paginated product listing
type ProductListResponse = shared.Paginated[ProductResponse]

// ToProductResponse maps a product aggregate to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		MRP:             p.MRP,
		SellingPrice:    p.SellingPrice,
		DiscountPercent: p.DiscountPercent,
		Category:        p.Category.String(),
		Subcategory:     p.Subcategory,
		Brand:           p.Brand,
		Images:          p.Images,
		SellerID:        p.SellerID,
		Quantity:        p.Inventory.Quantity,
		SKU:             p.Inventory.SKU,
		InStock:         p.InStock(1),
		LowStock:        p.IsLowStock(),
		RatingAverage:   p.Rating.Average,
		RatingCount:     p.Rating.Count,
		Tags:            p.Tags,
		IsActive:        p.IsActive,
		IsFeatured:      p.IsFeatured,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toImages(inputs []ImageInput) []catalog.Image {
	if len(inputs) == 0 {
		return nil
	}
	images := make([]catalog.Image, len(inputs))
	for i, in := range inputs {
		images[i] = catalog.Image{URL: in.URL, Alt: in.Alt, IsPrimary: in.IsPrimary}
	}
	return images
}
