package order

import (
	"context"

	"github.com/vendorverse/backend/internal/domain/cart"
	"github.com/vendorverse/backend/internal/domain/catalog"
	"github.com/vendorverse/backend/internal/domain/order"
)

// CheckoutScope executes order placement as a single transactional unit.
// The order insert, the stock decrements and the cart clear either all
// commit or all roll back.
type CheckoutScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos CheckoutRepositories) error) error
}

// CheckoutRepositories provides repositories bound to one transaction
type CheckoutRepositories interface {
	Orders() order.OrderRepository
	Products() catalog.ProductRepository
	Carts() cart.CartRepository
}
