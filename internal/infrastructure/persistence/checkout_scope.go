package persistence

import (
	"context"

	"gorm.io/gorm"

	apporder "github.com/vendorverse/backend/internal/application/order"
	"github.com/vendorverse/backend/internal/domain/cart"
	"github.com/vendorverse/backend/internal/domain/catalog"
	"github.com/vendorverse/backend/internal/domain/order"
)

// GormCheckoutScope implements CheckoutScope using GORM transactions.
// Order insertion, stock decrements, and cart clearing commit or roll
// back as one unit.
type GormCheckoutScope struct {
	db *gorm.DB
}

// NewGormCheckoutScope creates a new GormCheckoutScope
func NewGormCheckoutScope(db *gorm.DB) *GormCheckoutScope {
	return &GormCheckoutScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormCheckoutScope) Execute(ctx context.Context, fn func(repos apporder.CheckoutRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCheckoutRepositories{tx: tx})
	})
}

// gormCheckoutRepositories provides repositories scoped to one transaction
type gormCheckoutRepositories struct {
	tx *gorm.DB
}

func (r *gormCheckoutRepositories) Orders() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormCheckoutRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormCheckoutRepositories) Carts() cart.CartRepository {
	return NewGormCartRepository(r.tx)
}

var _ apporder.CheckoutScope = (*GormCheckoutScope)(nil)
var _ apporder.CheckoutRepositories = (*gormCheckoutRepositories)(nil)
