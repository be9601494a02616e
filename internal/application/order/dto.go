package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorverse/backend/internal/domain/order"
	"github.com/vendorverse/backend/internal/domain/shared"
)

// ShippingAddressInput represents the delivery address in checkout requests
type ShippingAddressInput struct {
	FullName     string `json:"full_name" binding:"required,min=1,max=100"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required,len=6,numeric"`
	Country      string `json:"country"`
}

// CheckoutItemInput represents a direct-checkout line. Price is the
// cart-time unit price from a client-held cart; when omitted the live
// selling price is charged instead.
type CheckoutItemInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	Price     *decimal.Decimal `json:"price"`
}

// CheckoutRequest represents an order placement request.
// When Items is empty the order is placed from the user's cart, which is
// cleared on success. Any client-supplied total is ignored; amounts are
// always recomputed server-side.
type CheckoutRequest struct {
	Items           []CheckoutItemInput  `json:"items"`
	ShippingAddress ShippingAddressInput `json:"shipping_address" binding:"required"`
	PaymentMethod   string               `json:"payment_method" binding:"required,oneof=cod card upi netbanking wallet"`
	Notes           string               `json:"notes" binding:"max=500"`
	TotalAmount     *decimal.Decimal     `json:"total_amount"` // Ignored; logged when it disagrees
}

// CancelOrderRequest represents an order cancellation request
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// UpdateStatusRequest represents a lifecycle transition request.
// Tracking fields are stored when a tracking number is supplied,
// typically alongside the move to shipped.
type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required,oneof=pending confirmed processing shipped delivered cancelled returned"`
	Carrier        string `json:"carrier" binding:"max=100"`
	TrackingNumber string `json:"tracking_number" binding:"max=100"`
	TrackingURL    string `json:"tracking_url" binding:"omitempty,url,max=500"`
}

// OrderListFilter represents filter options for order listing
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled returned"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	Title     string          `json:"title"`
	Image     string          `json:"image,omitempty"`
	SKU       string          `json:"sku,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PaymentResponse represents payment details in API responses
type PaymentResponse struct {
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// TrackingResponse represents shipment tracking details in API responses
type TrackingResponse struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url,omitempty"`
}

// ShippingAddressResponse represents the delivery address in API responses
type ShippingAddressResponse struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID               `json:"id"`
	OrderNumber     string                  `json:"order_number"`
	UserID          uuid.UUID               `json:"user_id"`
	Items           []OrderItemResponse     `json:"items"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	ShippingFee     decimal.Decimal         `json:"shipping_fee"`
	Tax             decimal.Decimal         `json:"tax"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	Status          string                  `json:"status"`
	Payment         PaymentResponse         `json:"payment"`
	ShippingAddress ShippingAddressResponse `json:"shipping_address"`
	Tracking        *TrackingResponse       `json:"tracking,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	DeliveredAt     *time.Time              `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time              `json:"cancelled_at,omitempty"`
	CancelReason    string                  `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// OrderListResponse is a paginated order listing
type OrderListResponse = shared.Paginated[OrderResponse]

// ToOrderResponse maps an order aggregate to its API representation
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Title:     item.Title,
			Image:     item.Image,
			SKU:       item.SKU,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
	}

	var tracking *TrackingResponse
	if !o.Tracking.IsZero() {
		tracking = &TrackingResponse{
			Carrier:        o.Tracking.Carrier,
			TrackingNumber: o.Tracking.Number,
			TrackingURL:    o.Tracking.URL,
		}
	}

	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Items:       items,
		Subtotal:    o.Subtotal,
		ShippingFee: o.ShippingFee,
		Tax:         o.Tax,
		TotalAmount: o.TotalAmount,
		Status:      o.Status.String(),
		Payment: PaymentResponse{
			Method:        string(o.Payment.Method),
			Status:        string(o.Payment.Status),
			TransactionID: o.Payment.TransactionID,
			PaidAt:        o.Payment.PaidAt,
		},
		ShippingAddress: ShippingAddressResponse{
			FullName:     o.ShippingAddress.FullName,
			Phone:        o.ShippingAddress.Phone,
			AddressLine1: o.ShippingAddress.AddressLine1,
			AddressLine2: o.ShippingAddress.AddressLine2,
			City:         o.ShippingAddress.City,
			State:        o.ShippingAddress.State,
			Pincode:      o.ShippingAddress.Pincode,
			Country:      o.ShippingAddress.Country,
		},
		Tracking:     tracking,
		Notes:        o.Notes,
		DeliveredAt:  o.DeliveredAt,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
