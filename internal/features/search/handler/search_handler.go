package handler

import (
	"net/http"
	"strings"
	"time"

	ordersdomain "orders-dashboard/internal/features/orders/domain"
	"orders-dashboard/internal/features/orders/store"
	"orders-dashboard/internal/features/search/domain"
	"orders-dashboard/internal/features/search/service"

	"github.com/gofiber/fiber/v2"
)

// SearchHandler handles HTTP requests for the advanced order search.
type SearchHandler struct {
	orchestrator *service.Orchestrator
	store        *store.Store
}

// NewSearchHandler creates a new instance of SearchHandler.
func NewSearchHandler(o *service.Orchestrator, st *store.Store) *SearchHandler {
	return &SearchHandler{
		orchestrator: o,
		store:        st,
	}
}

// Search handles the request to run an advanced order search.
// @Summary Search orders
// @Description Runs the full search pipeline over the loaded collection and the platform API: cached results are served when fresh, otherwise local matches and remote matches are merged, deduplicated and sorted by creation date descending. The merged result becomes the visible order list.
// @Produce json
// @Param q query string true "Free-text query: order number, email or customer name"
// @Param status query string false "Comma-separated fulfillment statuses"
// @Param from query string false "Creation date lower bound (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Creation date upper bound (RFC3339 or YYYY-MM-DD, inclusive)"
// @Param limit query int false "Remote result limit (capped at 100)"
// @Success 200 {object} domain.SearchResult
// @Failure 400 {object} ErrorResponse
// @Router /orders/search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	rayID := rayID(c)

	filters, err := parseFilters(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	result := h.orchestrator.Search(c.UserContext(), query, h.store.Orders(), filters)
	h.store.SetSearchResult(query, result.Orders)

	return c.Status(http.StatusOK).JSON(result)
}

// ClearSearch handles the request to dismiss the active search.
// @Summary Clear the active search
// @Description Cancels any pending debounced search and reverts the visible order list to the plain collection.
// @Produce json
// @Success 204
// @Router /orders/search [delete]
func (h *SearchHandler) ClearSearch(c *fiber.Ctx) error {
	h.orchestrator.CancelDebounced()
	h.store.ClearSearch()
	return c.SendStatus(http.StatusNoContent)
}

// parseFilters extracts the optional search constraints from the query string.
func parseFilters(c *fiber.Ctx) (domain.SearchFilters, error) {
	var filters domain.SearchFilters

	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := ordersdomain.OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
			if status == "" {
				continue
			}
			if !ordersdomain.ValidStatus(status) {
				return filters, fiber.NewError(http.StatusBadRequest, "unknown status: "+string(status))
			}
			filters.Statuses = append(filters.Statuses, status)
		}
	}

	from, err := parseDate(c.Query("from"), false)
	if err != nil {
		return filters, err
	}
	filters.DateFrom = from

	to, err := parseDate(c.Query("to"), true)
	if err != nil {
		return filters, err
	}
	filters.DateTo = to

	filters.Limit = c.QueryInt("limit")

	return filters, nil
}

// parseDate accepts RFC3339 timestamps or plain dates. A plain date used as
// an upper bound extends to the end of that day so the bound stays inclusive.
func parseDate(raw string, upperBound bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "invalid date: "+raw)
	}
	if upperBound {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// rayID extracts the request identifier set by the requestid middleware.
func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
