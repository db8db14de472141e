package handler

import (
	"errors"
	"net/http"

	"orders-dashboard/internal/core/logger"
	"orders-dashboard/internal/features/orders/domain"
	"orders-dashboard/internal/features/orders/service"
	"orders-dashboard/internal/features/orders/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests related to the order collection.
type OrderHandler struct {
	// service is the OrderService instance.
	service *service.OrderService
	store   *store.Store
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s *service.OrderService, st *store.Store) *OrderHandler {
	return &OrderHandler{
		service: s,
		store:   st,
	}
}

// ListOrders handles the request to list the currently visible orders.
// @Summary List visible orders
// @Description Returns the order list the dashboard renders: the active search result when one exists, otherwise the loaded collection. An optional filter narrows the collection by substring match.
// @Produce json
// @Param filter query string false "Substring filter over number and contact fields"
// @Success 200 {object} OrderListResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	if filter := c.Query("filter"); filter != "" || c.Request().URI().QueryArgs().Has("filter") {
		h.store.SetSimpleFilter(filter)
	}

	visible := h.store.Visible()
	return c.Status(http.StatusOK).JSON(OrderListResponse{
		Orders: visible,
		Total:  len(visible),
	})
}

// GetOrder handles the request to retrieve a single order.
// @Summary Get Order by ID
// @Description Fetch order details by platform order ID, falling back to the platform API when the order is outside the loaded collection.
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	rayID := rayID(c)

	if orderID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Order ID is required",
			RayID:   rayID,
		})
	}

	order, err := h.service.GetOrder(c.UserContext(), orderID)
	if err != nil {
		logger.Get().Error("Failed to fetch order",
			zap.String("order_id", orderID),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)

		status := http.StatusInternalServerError
		msg := err.Error()
		if errors.Is(err, service.ErrOrderNotFound) {
			status = http.StatusNotFound
			msg = "Order not found"
		}

		return c.Status(status).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(order)
}

// UpdateStatus handles the request to apply an order status change.
// @Summary Update order status
// @Description Applies an externally-decided fulfillment status change to every in-memory copy of the order.
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body StatusUpdateRequest true "New status"
// @Success 200 {object} StatusUpdateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	rayID := rayID(c)

	var req StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	if err := h.service.UpdateStatus(orderID, domain.OrderStatus(req.Status)); err != nil {
		status := http.StatusInternalServerError
		msg := err.Error()
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			status = http.StatusBadRequest
			msg = "Invalid order status"
		case errors.Is(err, service.ErrOrderNotFound):
			status = http.StatusNotFound
			msg = "Order not found"
		}

		return c.Status(status).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(StatusUpdateResponse{
		ID:     orderID,
		Status: req.Status,
	})
}

// Refresh handles the request to reload the order collection.
// @Summary Refresh the order collection
// @Description Reloads the most recent orders from the platform, replacing the in-memory collection and resetting any active search.
// @Produce json
// @Success 200 {object} RefreshResponse
// @Failure 502 {object} ErrorResponse
// @Router /orders/refresh [post]
func (h *OrderHandler) Refresh(c *fiber.Ctx) error {
	rayID := rayID(c)

	count, err := h.service.Refresh(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to refresh order collection",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "Failed to load orders from platform",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(RefreshResponse{Loaded: count})
}

// rayID extracts the request identifier set by the requestid middleware.
func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// OrderListResponse wraps a visible order listing.
type OrderListResponse struct {
	Orders []*domain.Order `json:"orders"`
	Total  int             `json:"total"`
}

// StatusUpdateRequest is the body of a status change.
type StatusUpdateRequest struct {
	// Status is the new fulfillment status.
	Status string `json:"status"`
}

// StatusUpdateResponse acknowledges an applied status change.
type StatusUpdateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RefreshResponse reports how many orders a refresh loaded.
type RefreshResponse struct {
	Loaded int `json:"loaded"`
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
