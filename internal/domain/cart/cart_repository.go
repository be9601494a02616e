package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository provides persistence for cart aggregates
type CartRepository interface {
	// FindByUserID returns the user's cart, or shared.ErrNotFound
	// when none exists yet.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}
