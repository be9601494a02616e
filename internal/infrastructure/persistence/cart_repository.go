package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vendorverse/backend/internal/domain/cart"
	"github.com/vendorverse/backend/internal/domain/shared"
)

// GormCartRepository implements cart.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUserID finds the user's cart with its items
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&c, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save persists the cart and its items as a unit. Lines removed from
// the aggregate are deleted so the table mirrors the in-memory state.
// Updates carry an optimistic version guard: a cart row that moved on
// since it was loaded is reported as shared.ErrConcurrencyConflict.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(c.Items))
		for _, item := range c.Items {
			keep = append(keep, item.ID)
		}

		prune := tx.Where("cart_id = ?", c.ID)
		if len(keep) > 0 {
			prune = prune.Where("id NOT IN ?", keep)
		}
		if err := prune.Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}

		result := tx.Model(&cart.Cart{}).
			Where("id = ? AND version = ?", c.ID, c.Version).
			Updates(map[string]any{
				"total_amount": c.TotalAmount,
				"item_count":   c.ItemCount,
				"updated_at":   c.UpdatedAt,
				"version":      c.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}

		switch {
		case result.RowsAffected > 0:
			c.IncrementVersion()
		default:
			var existing int64
			if err := tx.Model(&cart.Cart{}).Where("id = ?", c.ID).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return shared.ErrConcurrencyConflict
			}
			if err := tx.Omit("Items").Create(c).Error; err != nil {
				return err
			}
		}

		if len(c.Items) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&c.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&cart.CartItem{}, "cart_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&cart.Cart{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
