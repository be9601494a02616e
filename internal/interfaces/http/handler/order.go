package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vendorverse/backend/internal/application/order"
	"github.com/vendorverse/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	BaseHandler
	orderService *order.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.Checkout)
	orders.POST("/create", h.Checkout)
	orders.GET("", h.List)
	orders.GET("/my", h.ListMine)
	orders.GET("/number/:orderNumber", h.GetByOrderNumber)
	orders.GET("/:id", h.GetByID)
	orders.POST("/:id/cancel", h.Cancel)
	orders.PUT("/:id/status", middleware.RequireSeller(), h.UpdateStatus)
}

// Checkout godoc
// @Summary      Place an order
// @Description  Places an order from the server-held cart, or from the request's item list when one is supplied
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body order.CheckoutRequest true "Shipping address, payment method and optional item list"
// @Success      201 {object} dto.Response{data=order.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req order.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	placed, err := h.orderService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, placed)
}

// List godoc
// @Summary      List orders
// @Description  Buyers see their own orders, sellers orders containing their items, admins all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Status filter"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]order.OrderResponse,meta=dto.Meta}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter order.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.List(c.Request.Context(), actorID, isAdmin(c), isSeller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListMine godoc
// @Summary      List own purchases
// @Description  Always scoped to the authenticated user's own orders, regardless of role
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Status filter"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]order.OrderResponse,meta=dto.Meta}
// @Router       /orders/my [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter order.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.List(c.Request.Context(), actorID, false, false, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @Summary      Get an order by ID
// @Description  Visible to the buyer, sellers with items in the order, and admins
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.GetByID(c.Request.Context(), actorID, isAdmin(c), isSeller(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByOrderNumber godoc
// @Summary      Get an order by order number
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        orderNumber path string true "Order number"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/number/{orderNumber} [get]
func (h *OrderHandler) GetByOrderNumber(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		h.BadRequest(c, "Missing order number")
		return
	}

	result, err := h.orderService.GetByOrderNumber(c.Request.Context(), actorID, isAdmin(c), isSeller(c), orderNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Buyers may cancel before shipment, sellers orders containing their items, admins at any cancellable stage. Restores reserved stock.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body order.CancelOrderRequest false "Cancellation reason"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	// Reason body is optional
	var req order.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	result, err := h.orderService.Cancel(c.Request.Context(), actorID, isAdmin(c), isSeller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStatus godoc
// @Summary      Update an order's status
// @Description  Moves the order along its lifecycle; only forward transitions are allowed
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body order.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.UpdateStatus(c.Request.Context(), actorID, isAdmin(c), isSeller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
