package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorverse/backend/internal/domain/shared"
	"github.com/vendorverse/backend/internal/domain/shared/valueobject"
)

// Category represents a top-level product category
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryFashion     Category = "fashion"
	CategoryHome        Category = "home"
	CategoryBeauty      Category = "beauty"
	CategoryGrocery     Category = "grocery"
	CategorySports      Category = "sports"
	CategoryBooks       Category = "books"
	CategoryOther       Category = "other"
)

// IsValid checks if the category is a known Category
func (c Category) IsValid() bool {
	switch c {
	case CategoryElectronics, CategoryFashion, CategoryHome, CategoryBeauty,
		CategoryGrocery, CategorySports, CategoryBooks, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// Image represents a product image
type Image struct {
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"is_primary,omitempty"`
}

// Inventory holds the stock information of a product
type Inventory struct {
	Quantity          int
	SKU               string
	LowStockThreshold int
}

// Rating holds the review aggregate of a product
type Rating struct {
	Average decimal.Decimal
	Count   int
}

// DefaultLowStockThreshold is applied when none is supplied
const DefaultLowStockThreshold = 10

var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Product represents a marketplace listing owned by a seller
// It is the aggregate root for catalog operations
type Product struct {
	shared.BaseAggregateRoot
	Title           string
	Slug            string
	Description     string
	MRP             decimal.Decimal // Maximum retail (list) price
	SellingPrice    decimal.Decimal
	DiscountPercent int // Derived from MRP and SellingPrice, never set directly
	Category        Category
	Subcategory     string
	Brand           string
	Images          []Image `gorm:"serializer:json"`
	SellerID        uuid.UUID
	Inventory       Inventory `gorm:"embedded;embeddedPrefix:inventory_"`
	Rating          Rating    `gorm:"embedded;embeddedPrefix:rating_"`
	Tags            []string  `gorm:"serializer:json"`
	IsActive        bool
	IsFeatured      bool
}

// NewProduct creates a new active product listing
func NewProduct(sellerID uuid.UUID, title, description string, mrp, sellingPrice valueobject.Money, category Category, quantity int, sku string) (*Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot be empty")
	}
	if len(description) > 5000 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 5000 characters")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Description:       description,
		Category:          category,
		SellerID:          sellerID,
		Inventory: Inventory{
			Quantity:          quantity,
			SKU:               strings.TrimSpace(sku),
			LowStockThreshold: DefaultLowStockThreshold,
		},
		Rating:   Rating{Average: decimal.Zero},
		IsActive: true,
	}

	if err := product.SetPricing(mrp, sellingPrice); err != nil {
		return nil, err
	}
	product.regenerateSlug()

	return product, nil
}

// SetPricing sets the list and selling prices and rederives the discount
func (p *Product) SetPricing(mrp, sellingPrice valueobject.Money) error {
	if mrp.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if sellingPrice.Amount().GreaterThan(mrp.Amount()) {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot exceed MRP")
	}

	p.MRP = mrp.Amount()
	p.SellingPrice = sellingPrice.Amount()
	p.DiscountPercent = deriveDiscount(p.MRP, p.SellingPrice)
	p.UpdatedAt = time.Now()

	return nil
}

// Rename changes the title and regenerates the slug
func (p *Product) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}

	p.Title = title
	p.regenerateSlug()
	p.UpdatedAt = time.Now()

	return nil
}

// SetDescription updates the description
func (p *Product) SetDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot be empty")
	}
	if len(description) > 5000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 5000 characters")
	}
	p.Description = description
	p.UpdatedAt = time.Now()
	return nil
}

// SetImages replaces the image list
func (p *Product) SetImages(images []Image) {
	p.Images = images
	p.UpdatedAt = time.Now()
}

// SetBrand updates the brand and subcategory labels
func (p *Product) SetBrand(brand, subcategory string) {
	p.Brand = strings.TrimSpace(brand)
	p.Subcategory = strings.TrimSpace(subcategory)
	p.UpdatedAt = time.Now()
}

// SetStock sets the absolute stock quantity
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	p.Inventory.Quantity = quantity
	p.UpdatedAt = time.Now()
	return nil
}

// AdjustInventory applies a relative stock change.
// A decrement below zero is rejected with INSUFFICIENT_STOCK.
func (p *Product) AdjustInventory(delta int) error {
	next := p.Inventory.Quantity + delta
	if next < 0 {
		return shared.ErrInsufficientStock
	}
	p.Inventory.Quantity = next
	p.UpdatedAt = time.Now()
	return nil
}

// InStock returns true if at least the requested quantity is available
func (p *Product) InStock(quantity int) bool {
	return p.Inventory.Quantity >= quantity
}

// IsLowStock returns true if the stock is at or below the threshold
func (p *Product) IsLowStock() bool {
	return p.Inventory.Quantity <= p.Inventory.LowStockThreshold
}

// PrimaryImage returns the URL of the primary (or first) image
func (p *Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

// RecordRating folds a new review rating into the aggregate
func (p *Product) RecordRating(rating int) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}

	total := p.Rating.Average.Mul(decimal.NewFromInt(int64(p.Rating.Count)))
	p.Rating.Count++
	p.Rating.Average = total.Add(decimal.NewFromInt(int64(rating))).
		Div(decimal.NewFromInt(int64(p.Rating.Count))).Round(2)
	p.UpdatedAt = time.Now()

	return nil
}

// Activate makes the listing visible
func (p *Product) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
}

// Deactivate hides the listing without deleting it
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// SetFeatured toggles the featured flag
func (p *Product) SetFeatured(featured bool) {
	p.IsFeatured = featured
	p.UpdatedAt = time.Now()
}

// IsOwnedBy returns true if the product belongs to the given seller
func (p *Product) IsOwnedBy(sellerID uuid.UUID) bool {
	return p.SellerID == sellerID
}

// regenerateSlug rebuilds the URL slug from the title.
// A timestamp suffix keeps slugs unique across same-titled listings.
func (p *Product) regenerateSlug() {
	slug := slugStripPattern.ReplaceAllString(strings.ToLower(p.Title), "-")
	slug = strings.Trim(slug, "-")
	p.Slug = fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
}

// deriveDiscount computes the discount percentage from list and selling price
func deriveDiscount(mrp, sellingPrice decimal.Decimal) int {
	if !mrp.IsPositive() {
		return 0
	}
	pct := mrp.Sub(sellingPrice).Div(mrp).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}
