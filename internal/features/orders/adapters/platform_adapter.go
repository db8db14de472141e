package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"orders-dashboard/internal/core/config"
	"orders-dashboard/internal/core/httpclient"
	"orders-dashboard/internal/core/logger"
	"orders-dashboard/internal/features/orders/domain"
	searchdomain "orders-dashboard/internal/features/search/domain"
	searchports "orders-dashboard/internal/features/search/ports"

	"go.uber.org/zap"
)

// PlatformAdapter talks to the e-commerce platform's order REST API. It
// implements the search OrderSource port (structured filter queries) and
// the orders OrderProvider port (single fetch, recent listing).
type PlatformAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the platform connection details.
	config config.PlatformConfig
	log    *zap.Logger
}

// NewPlatformAdapter creates a new instance of PlatformAdapter.
func NewPlatformAdapter(cfg config.PlatformConfig) *PlatformAdapter {
	return &PlatformAdapter{
		client: httpclient.NewClientWithHeaders(10*time.Second, map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		}),
		config: cfg,
		log:    logger.Named("platform"),
	}
}

// searchRequest is the wire shape of the order search call.
type searchRequest struct {
	Filter *searchdomain.FilterDocument `json:"filter"`
	Sort   []sortField                  `json:"sort"`
	Paging pagingRequest                `json:"paging"`
}

type sortField struct {
	FieldName string `json:"fieldName"`
	Order     string `json:"order"`
}

type pagingRequest struct {
	Limit int `json:"limit"`
}

// searchResponse is the wire shape of the order search result. Orders are
// kept raw so the full payload can be carried through untouched.
type searchResponse struct {
	Orders   []json.RawMessage `json:"orders"`
	Metadata pagingMetadata    `json:"pagingMetadata"`
}

type pagingMetadata struct {
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	Cursors struct {
		Next string `json:"next"`
	} `json:"cursors"`
}

// Query executes a structured filter query, sorted by creation date
// descending, returning at most limit orders.
func (a *PlatformAdapter) Query(ctx context.Context, filter *searchdomain.FilterDocument, limit int) (*searchports.OrderPage, error) {
	body, err := json.Marshal(searchRequest{
		Filter: filter,
		Sort:   []sortField{{FieldName: "createdDate", Order: "DESC"}},
		Paging: pagingRequest{Limit: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/orders/search", a.config.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("platform API returned status: %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	page := &searchports.OrderPage{
		HasMore:    decoded.Metadata.HasNext,
		NextCursor: decoded.Metadata.Cursors.Next,
		Total:      decoded.Metadata.Total,
	}
	for _, raw := range decoded.Orders {
		if order := a.mapOrder(raw); order != nil {
			page.Orders = append(page.Orders, order)
		}
	}

	return page, nil
}

// GetOrder fetches one order by its platform identifier. A missing order
// is reported as (nil, nil).
func (a *PlatformAdapter) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	url := fmt.Sprintf("%s/v2/orders/%s", a.config.URL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("platform API returned status: %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	order := a.mapOrder(raw)
	if order == nil {
		return nil, fmt.Errorf("malformed order payload for %s", orderID)
	}
	return order, nil
}

// ListRecent fetches the most recent placed orders.
func (a *PlatformAdapter) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	filter := searchdomain.NewFilterDocument().
		Add("status", searchdomain.OpNe, domain.StatusInitialized)

	page, err := a.Query(ctx, filter, limit)
	if err != nil {
		return nil, err
	}
	return page.Orders, nil
}

// HealthCheck verifies that the platform API is reachable and credentials are valid.
func (a *PlatformAdapter) HealthCheck(ctx context.Context) error {
	filter := searchdomain.NewFilterDocument().
		Add("status", searchdomain.OpNe, domain.StatusInitialized)

	if _, err := a.Query(ctx, filter, 1); err != nil {
		return fmt.Errorf("platform health check failed: %w", err)
	}
	return nil
}

// internal structs for mapping

// platformOrder is the subset of the platform order payload promoted to
// the flat domain shape. Everything else rides along in Raw.
type platformOrder struct {
	ID                string               `json:"id"`
	Number            string               `json:"number"`
	FulfillmentStatus string               `json:"fulfillmentStatus"`
	CreatedDate       apiTime              `json:"createdDate"`
	BuyerInfo         platformBuyerInfo    `json:"buyerInfo"`
	RecipientInfo     platformContactBlock `json:"recipientInfo"`
	BillingInfo       platformContactBlock `json:"billingInfo"`
}

// platformBuyerInfo is the buyer-level contact block.
type platformBuyerInfo struct {
	ContactID string `json:"contactId"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// platformContactBlock wraps the nested contact details of the recipient
// and billing blocks.
type platformContactBlock struct {
	ContactDetails platformContactDetails `json:"contactDetails"`
	Email          string                 `json:"email"`
	Phone          string                 `json:"phone"`
}

type platformContactDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
}

// mapOrder converts one raw platform order into the domain entity.
// Malformed records are logged and dropped rather than failing the batch.
func (a *PlatformAdapter) mapOrder(raw json.RawMessage) *domain.Order {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var po platformOrder
	if err := json.Unmarshal(raw, &po); err != nil {
		a.log.Warn("Skipping malformed order record", zap.Error(err))
		return nil
	}
	if po.ID == "" {
		a.log.Warn("Skipping order record without id")
		return nil
	}

	recipient := contactFromBlock(po.RecipientInfo)
	billing := contactFromBlock(po.BillingInfo)
	buyer := domain.ContactDetails{
		Email: po.BuyerInfo.Email,
		Phone: po.BuyerInfo.Phone,
	}

	order := &domain.Order{
		ID:             po.ID,
		Number:         po.Number,
		Status:         mapStatus(po.FulfillmentStatus),
		CreatedAt:      time.Time(po.CreatedDate),
		Recipient:      recipient,
		Billing:        billing,
		Buyer:          buyer,
		Customer:       domain.ResolveCustomer(recipient, billing, buyer),
		BuyerContactID: po.BuyerInfo.ContactID,
		Raw:            raw,
	}
	return order
}

// contactFromBlock flattens a nested platform contact block.
func contactFromBlock(block platformContactBlock) domain.ContactDetails {
	phone := block.ContactDetails.Phone
	if phone == "" {
		phone = block.Phone
	}
	return domain.ContactDetails{
		FirstName: block.ContactDetails.FirstName,
		LastName:  block.ContactDetails.LastName,
		Email:     block.Email,
		Phone:     phone,
		Company:   block.ContactDetails.Company,
	}
}

// mapStatus normalizes the platform fulfillment status.
func mapStatus(status string) domain.OrderStatus {
	s := domain.OrderStatus(strings.ToUpper(status))
	if domain.ValidStatus(s) {
		return s
	}
	return domain.OrderStatusNotFulfilled
}

// apiTime is a custom helper struct to handle the platform's date formats.
type apiTime time.Time

// UnmarshalJSON parses RFC3339 timestamps with a fallback for the
// timezone-less variant some endpoints return.
func (t *apiTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		*t = apiTime(time.Time{})
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		parsed, err = time.Parse("2006-01-02T15:04:05", s)
	}
	if err != nil {
		logger.Get().Warn("Failed to parse date", zap.String("date", s), zap.Error(err))
		return nil
	}
	*t = apiTime(parsed)
	return nil
}
