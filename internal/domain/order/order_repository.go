package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendorverse/backend/internal/domain/shared"
)

// OrderFilter narrows order queries
type OrderFilter struct {
	shared.Filter
	UserID   *uuid.UUID
	SellerID *uuid.UUID // Matches orders containing at least one of the seller's lines
	Status   OrderStatus
}

// OrderRepository provides persistence for order aggregates
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, filter OrderFilter) (*shared.Paginated[*Order], error)

	// Save persists the aggregate and reports shared.ErrAlreadyExists
	// on an order number collision.
	Save(ctx context.Context, order *Order) error
}
