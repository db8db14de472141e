package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"orders-dashboard/internal/core/config"
	"orders-dashboard/internal/core/httpclient"
	"orders-dashboard/internal/core/logger"

	"go.uber.org/zap"
)

// ContactsAdapter resolves name fragments to platform contact identifiers
// through the contact directory API. It implements the search
// ContactDirectory port.
type ContactsAdapter struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

// NewContactsAdapter creates a new instance of ContactsAdapter.
func NewContactsAdapter(cfg config.ContactsConfig, apiKey string) *ContactsAdapter {
	return &ContactsAdapter{
		client: httpclient.NewClientWithHeaders(10*time.Second, map[string]string{
			"Authorization": "Bearer " + apiKey,
		}),
		baseURL: cfg.URL,
		log:     logger.Named("contacts"),
	}
}

// contactsResponse is the wire shape of the directory lookup.
type contactsResponse struct {
	Contacts []struct {
		ID string `json:"id"`
	} `json:"contacts"`
}

// Resolve returns the contact identifiers whose name matches the fragment.
// Callers treat any error as "no identifiers resolved" and fall back to
// local name matching.
func (a *ContactsAdapter) Resolve(ctx context.Context, nameFragment string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v1/contacts/search?name=%s", a.baseURL, url.QueryEscape(nameFragment))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("contact directory returned status: %d", resp.StatusCode)
	}

	var decoded contactsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	ids := make([]string, 0, len(decoded.Contacts))
	for _, c := range decoded.Contacts {
		if c.ID != "" {
			ids = append(ids, c.ID)
		}
	}

	a.log.Debug("Resolved contacts for name fragment",
		zap.String("fragment", nameFragment),
		zap.Int("matches", len(ids)),
	)
	return ids, nil
}
