package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorverse/backend/internal/domain/cart"
	"github.com/vendorverse/backend/internal/domain/catalog"
	"github.com/vendorverse/backend/internal/domain/order"
	"github.com/vendorverse/backend/internal/domain/shared"
	"github.com/vendorverse/backend/internal/domain/shared/valueobject"
)

// Order number collisions are retried with a fresh number
const maxOrderNumberRetries = 5

// OrderService handles order placement and lifecycle operations
type OrderService struct {
	scope     CheckoutScope
	orderRepo order.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(scope CheckoutScope, orderRepo order.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		scope:     scope,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Checkout places an order. Lines come either from the request (direct
// buy) or from the user's cart, which is emptied on success. Lines are
// charged at their cart-time price, not the live catalog price; stock is
// decremented atomically so two concurrent checkouts cannot both take
// the last unit.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	address, err := valueobject.NewShippingAddress(
		req.ShippingAddress.FullName,
		req.ShippingAddress.Phone,
		req.ShippingAddress.AddressLine1,
		req.ShippingAddress.AddressLine2,
		req.ShippingAddress.City,
		req.ShippingAddress.State,
		req.ShippingAddress.Pincode,
		req.ShippingAddress.Country,
	)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	method := order.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	var placed *order.Order
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		placed, err = s.placeOrder(ctx, userID, address, method, req)
		if err == nil {
			break
		}
		if !isDuplicateOrderNumber(err) {
			return nil, err
		}
		s.logger.Warn("Order number collision, retrying",
			zap.Int("attempt", attempt+1),
			zap.String("user_id", userID.String()))
	}
	if err != nil {
		s.logger.Error("Exhausted order number retries", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to place order")
	}

	if req.TotalAmount != nil && !req.TotalAmount.Equal(placed.TotalAmount) {
		// Client-sent totals are never trusted; surface the disagreement
		s.logger.Warn("Client total disagrees with computed total",
			zap.String("order_number", placed.OrderNumber),
			zap.String("client_total", req.TotalAmount.String()),
			zap.String("computed_total", placed.TotalAmount.String()))
	}

	s.logger.Info("Order placed",
		zap.String("order_number", placed.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.String("total", placed.TotalAmount.String()))

	response := ToOrderResponse(placed)
	return &response, nil
}

// placeOrder runs one checkout attempt inside a single transaction
func (s *OrderService) placeOrder(ctx context.Context, userID uuid.UUID, address valueobject.ShippingAddress, method order.PaymentMethod, req CheckoutRequest) (*order.Order, error) {
	orderNumber, err := order.NewOrderNumber()
	if err != nil {
		return nil, err
	}

	var placed *order.Order
	err = s.scope.Execute(ctx, func(repos CheckoutRepositories) error {
		lines := req.Items
		fromCart := len(lines) == 0

		var buyerCart *cart.Cart
		if fromCart {
			c, err := repos.Carts().FindByUserID(ctx, userID)
			if err != nil {
				if isNotFound(err) {
					return shared.ErrEmptyCart
				}
				return err
			}
			if c.IsEmpty() {
				return shared.ErrEmptyCart
			}
			buyerCart = c
			for _, item := range c.Items {
				price := item.UnitPrice
				lines = append(lines, CheckoutItemInput{ProductID: item.ProductID, Quantity: item.Quantity, Price: &price})
			}
		}

		items, err := s.buildOrderItems(ctx, repos.Products(), lines)
		if err != nil {
			return err
		}

		// Conditional decrements: any line short on stock aborts the
		// whole transaction, so inventory can never go negative.
		for _, line := range lines {
			if err := repos.Products().DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		o, err := order.NewOrder(orderNumber, userID, address, method, items)
		if err != nil {
			return err
		}
		if req.Notes != "" {
			o.SetNotes(req.Notes)
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}

		// The cart survives checkout as an empty cart
		if fromCart {
			buyerCart.Clear()
			if err := repos.Carts().Save(ctx, buyerCart); err != nil {
				return err
			}
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// buildOrderItems snapshots product data into order lines. A carried
// line price wins over the live selling price, so items are charged at
// what the buyer saw when adding them.
func (s *OrderService) buildOrderItems(ctx context.Context, products catalog.ProductRepository, lines []CheckoutItemInput) ([]order.OrderItem, error) {
	if len(lines) == 0 {
		return nil, shared.ErrEmptyCart
	}

	seen := make(map[uuid.UUID]int, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if _, dup := seen[line.ProductID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears more than once in the order")
		}
		seen[line.ProductID] = line.Quantity
		ids = append(ids, line.ProductID)
	}

	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	items := make([]order.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		if !product.IsActive {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product "+product.Title+" is no longer available")
		}

		unitPrice := valueobject.NewMoneyINR(product.SellingPrice)
		if line.Price != nil {
			if line.Price.IsNegative() {
				return nil, shared.NewDomainError("INVALID_PRICE", "Line price cannot be negative")
			}
			unitPrice = valueobject.NewMoneyINR(*line.Price)
		}

		item, err := order.NewOrderItem(uuid.Nil, product.ID, product.SellerID,
			product.Title, product.PrimaryImage(), product.Inventory.SKU,
			unitPrice, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, nil
}

// GetByID retrieves an order. Buyers see their own orders, sellers the
// orders containing their lines, admins all orders.
func (s *OrderService) GetByID(ctx context.Context, actorID uuid.UUID, isAdmin, isSeller bool, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !s.canView(o, actorID, isAdmin, isSeller) {
		return nil, shared.ErrForbidden
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// GetByOrderNumber retrieves an order by its public number
func (s *OrderService) GetByOrderNumber(ctx context.Context, actorID uuid.UUID, isAdmin, isSeller bool, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if !s.canView(o, actorID, isAdmin, isSeller) {
		return nil, shared.ErrForbidden
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves the actor's orders: buyers their own, sellers the
// orders containing their lines, admins everything.
func (s *OrderService) List(ctx context.Context, actorID uuid.UUID, isAdmin, isSeller bool, filter OrderListFilter) (*OrderListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := order.OrderFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
		Status: order.OrderStatus(filter.Status),
	}
	switch {
	case isAdmin:
		// No scoping
	case isSeller:
		domainFilter.SellerID = &actorID
	default:
		domainFilter.UserID = &actorID
	}

	page, err := s.orderRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, len(page.Items))
	for i, o := range page.Items {
		items[i] = ToOrderResponse(o)
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Cancel cancels an order and restores the reserved stock. Buyers may
// cancel their own orders, sellers the orders containing their lines,
// admins any order. Shipped and delivered orders cannot be cancelled.
func (s *OrderService) Cancel(ctx context.Context, actorID uuid.UUID, isAdmin, isSeller bool, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	var cancelled *order.Order
	err := s.scope.Execute(ctx, func(repos CheckoutRepositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !isAdmin && !o.BelongsTo(actorID) && !(isSeller && o.ContainsSeller(actorID)) {
			return shared.ErrForbidden
		}

		if err := o.Cancel(req.Reason); err != nil {
			return err
		}

		for _, item := range o.Items {
			if err := repos.Products().RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled",
		zap.String("order_number", cancelled.OrderNumber),
		zap.String("actor_id", actorID.String()))

	response := ToOrderResponse(cancelled)
	return &response, nil
}

// UpdateStatus moves an order along its lifecycle. Sellers may update
// orders containing their lines; admins any order. Tracking details are
// stored when a tracking number is supplied. Transitions to cancelled
// go through Cancel so stock is restored.
func (s *OrderService) UpdateStatus(ctx context.Context, actorID uuid.UUID, isAdmin, isSeller bool, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.OrderStatus(req.Status)
	if target == order.OrderStatusCancelled {
		return s.Cancel(ctx, actorID, isAdmin, isSeller, orderID, CancelOrderRequest{Reason: "cancelled by " + roleLabel(isAdmin, isSeller)})
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && !(isSeller && o.ContainsSeller(actorID)) {
		return nil, shared.ErrForbidden
	}

	if err := o.UpdateStatus(target); err != nil {
		return nil, err
	}
	if req.TrackingNumber != "" {
		o.SetTracking(req.Carrier, req.TrackingNumber, req.TrackingURL)
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_number", o.OrderNumber),
		zap.String("status", o.Status.String()))

	response := ToOrderResponse(o)
	return &response, nil
}

func (s *OrderService) canView(o *order.Order, actorID uuid.UUID, isAdmin, isSeller bool) bool {
	if isAdmin || o.BelongsTo(actorID) {
		return true
	}
	return isSeller && o.ContainsSeller(actorID)
}

func roleLabel(isAdmin, isSeller bool) string {
	switch {
	case isAdmin:
		return "admin"
	case isSeller:
		return "seller"
	default:
		return "buyer"
	}
}

func isDuplicateOrderNumber(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrAlreadyExists.Code
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}
