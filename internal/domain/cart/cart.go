package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorverse/backend/internal/domain/shared"
	"github.com/vendorverse/backend/internal/domain/shared/valueobject"
)

// CartItem represents a line in a shopping cart.
// Title, Image and UnitPrice are snapshots of the product at add time;
// checkout charges the snapshot price, not the live one.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	SellerID  uuid.UUID
	Title     string
	Image     string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal // Quantity * UnitPrice
	CreatedAt time.Time
	UpdatedAt time.Time
}

func newCartItem(cartID, productID, sellerID uuid.UUID, title, image string, unitPrice valueobject.Money, quantity int) (*CartItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product title cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	qty := decimal.NewFromInt(int64(quantity))

	return &CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		SellerID:  sellerID,
		Title:     title,
		Image:     image,
		UnitPrice: unitPrice.Amount(),
		Quantity:  quantity,
		LineTotal: unitPrice.Amount().Mul(qty),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (i *CartItem) setQuantity(quantity int) {
	i.Quantity = quantity
	i.LineTotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	i.UpdatedAt = time.Now()
}

// Cart represents a user's shopping cart aggregate.
// Each user owns exactly one cart.
type Cart struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID  `gorm:"uniqueIndex"`
	Items       []CartItem `gorm:"foreignKey:CartID;references:ID"`
	TotalAmount decimal.Decimal
	ItemCount   int // Sum of line quantities
}

// NewCart creates an empty cart for the user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
		TotalAmount:       decimal.Zero,
	}, nil
}

// Quantity returns the current quantity of a product in the cart, 0 if absent.
// Callers use it to validate the combined quantity against live stock before AddItem.
func (c *Cart) Quantity(productID uuid.UUID) int {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// AddItem adds a product to the cart, merging into an existing line
// by incrementing its quantity
func (c *Cart) AddItem(productID, sellerID uuid.UUID, title, image string, unitPrice valueobject.Money, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].setQuantity(c.Items[idx].Quantity + quantity)
			c.recalculateTotals()
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	item, err := newCartItem(c.ID, productID, sellerID, title, image, unitPrice, quantity)
	if err != nil {
		return err
	}

	c.Items = append(c.Items, *item)
	c.recalculateTotals()
	c.UpdatedAt = time.Now()

	return nil
}

// UpdateQuantity sets the absolute quantity of a line.
// A quantity of zero or less removes the line; an absent product is a no-op.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(productID)
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].setQuantity(quantity)
			c.recalculateTotals()
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return nil
}

// RemoveItem removes a product line from the cart.
// Removing a product that is not in the cart is a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	for idx, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.recalculateTotals()
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return nil
}

// Clear removes all lines, typically after a successful checkout
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.recalculateTotals()
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) recalculateTotals() {
	total := decimal.Zero
	count := 0
	for _, item := range c.Items {
		total = total.Add(item.LineTotal)
		count += item.Quantity
	}
	c.TotalAmount = total
	c.ItemCount = count
}
