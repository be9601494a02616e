package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorverse/backend/internal/domain/shared"
	"github.com/vendorverse/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered:
		return target == OrderStatusReturned
	case OrderStatusCancelled, OrderStatusReturned:
		return false // Terminal states
	}
	return false
}

// PaymentMethod represents how the buyer pays for an order
type PaymentMethod string

const (
	PaymentMethodCOD        PaymentMethod = "cod"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodCard, PaymentMethodUPI, PaymentMethodNetbanking, PaymentMethodWallet:
		return true
	}
	return false
}

// PaymentStatus represents the settlement state of an order's payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment holds the payment details of an order
type Payment struct {
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID string
	PaidAt        *time.Time
}

// Tracking holds shipment tracking details supplied by the seller
type Tracking struct {
	Carrier string
	Number  string
	URL     string
}

// IsZero reports whether no tracking has been recorded
func (t Tracking) IsZero() bool {
	return t.Number == ""
}

// OrderItem represents a purchased line. Title, Image, SKU and UnitPrice
// are frozen snapshots taken at checkout; later product edits do not
// change placed orders.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	SellerID  uuid.UUID
	Title     string
	Image     string
	SKU       string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal // Quantity * UnitPrice
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrderItem creates an order line from a product snapshot
func NewOrderItem(orderID, productID, sellerID uuid.UUID, title, image, sku string, unitPrice valueobject.Money, quantity int) (*OrderItem, error) {
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

	return &OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		SellerID:  sellerID,
		Title:     title,
		Image:     image,
		SKU:       sku,
		UnitPrice: unitPrice.Amount(),
		Quantity:  quantity,
		LineTotal: unitPrice.Amount().Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Order represents a placed order aggregate root.
// Amounts are computed server-side from the line snapshots; client-supplied
// totals are never trusted.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string `gorm:"uniqueIndex"`
	UserID          uuid.UUID
	Items           []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	Tax             decimal.Decimal
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	Payment         Payment                     `gorm:"embedded;embeddedPrefix:payment_"`
	ShippingAddress valueobject.ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_"`
	Tracking        Tracking                    `gorm:"embedded;embeddedPrefix:tracking_"`
	Notes           string
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// NewOrder creates a pending order from checkout line snapshots.
// Pricing is derived from the items; items must not be empty.
func NewOrder(orderNumber string, userID uuid.UUID, address valueobject.ShippingAddress, method PaymentMethod, items []OrderItem) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if err := address.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		Items:             items,
		Status:            OrderStatusPending,
		Payment: Payment{
			Method: method,
			Status: PaymentStatusPending,
		},
		ShippingAddress: address,
	}

	for idx := range order.Items {
		order.Items[idx].OrderID = order.ID
	}
	order.recalculatePricing()

	return order, nil
}

// UpdateStatus moves the order along its lifecycle.
// Invalid transitions are rejected with INVALID_STATE.
func (o *Order) UpdateStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition order from "+o.Status.String()+" to "+target.String())
	}

	now := time.Now()
	o.Status = target
	o.UpdatedAt = now

	switch target {
	case OrderStatusDelivered:
		o.DeliveredAt = &now
		// Cash on delivery settles at the door
		if o.Payment.Status == PaymentStatusPending {
			o.Payment.Status = PaymentStatusPaid
			o.Payment.PaidAt = &now
		}
	case OrderStatusCancelled:
		o.CancelledAt = &now
	case OrderStatusReturned:
		if o.Payment.Status == PaymentStatusPaid {
			o.Payment.Status = PaymentStatusRefunded
		}
	}

	return nil
}

// CanBeCancelled returns true while the order has not shipped
func (o *Order) CanBeCancelled() bool {
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}

// Cancel cancels the order with a reason.
// Shipped, delivered and terminal orders cannot be cancelled.
func (o *Order) Cancel(reason string) error {
	if !o.CanBeCancelled() {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot cancel order in "+o.Status.String()+" status")
	}

	if err := o.UpdateStatus(OrderStatusCancelled); err != nil {
		return err
	}
	o.CancelReason = reason
	if o.Payment.Status == PaymentStatusPaid {
		o.Payment.Status = PaymentStatusRefunded
	}

	return nil
}

// SetTracking records shipment tracking details on the order
func (o *Order) SetTracking(carrier, number, url string) {
	o.Tracking = Tracking{Carrier: carrier, Number: number, URL: url}
	o.UpdatedAt = time.Now()
}

// MarkPaid records an online payment settlement
func (o *Order) MarkPaid(transactionID string) error {
	if o.Payment.Status == PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Order is already paid")
	}

	now := time.Now()
	o.Payment.Status = PaymentStatusPaid
	o.Payment.TransactionID = transactionID
	o.Payment.PaidAt = &now
	o.UpdatedAt = now

	return nil
}

// SetNotes attaches buyer notes to the order
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// BelongsTo returns true if the order was placed by the given user
func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID == userID
}

// ContainsSeller returns true if any line belongs to the given seller
func (o *Order) ContainsSeller(sellerID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

func (o *Order) recalculatePricing() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}

	p := ComputePricing(subtotal)
	o.Subtotal = p.Subtotal
	o.ShippingFee = p.ShippingFee
	o.Tax = p.Tax
	o.TotalAmount = p.Total
}
