package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorverse/backend/internal/domain/shared"
)

// ProductFilter narrows product listings queries
type ProductFilter struct {
	shared.Filter
	Category   Category
	SellerID   *uuid.UUID
	Search     string
	Brand      string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Featured   *bool
	ActiveOnly bool
	InStock    bool
	SortBy     string // price_asc, price_desc, rating, newest
}

// ProductRepository provides persistence for product aggregates
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	List(ctx context.Context, filter ProductFilter) (*shared.Paginated[*Product], error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically reduces stock by quantity only when enough
	// remains, and reports shared.ErrInsufficientStock otherwise.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// RestoreStock adds quantity back after a cancellation.
	RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error
}
