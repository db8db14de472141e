package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"orders-dashboard/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContactsAdapter_Resolve verifies the directory lookup and id extraction.
func TestContactsAdapter_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/contacts/search", r.URL.Path)
		assert.Equal(t, "John Doe", r.URL.Query().Get("name"))
		assert.Equal(t, "Bearer key_test", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"contacts": [{"id": "c-1"}, {"id": ""}, {"id": "c-2"}]}`))
	}))
	defer server.Close()

	adapter := NewContactsAdapter(config.ContactsConfig{URL: server.URL}, "key_test")

	ids, err := adapter.Resolve(context.Background(), "John Doe")

	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-2"}, ids)
}

// TestContactsAdapter_Resolve_NoMatches verifies an empty match set is not an error.
func TestContactsAdapter_Resolve_NoMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"contacts": []}`))
	}))
	defer server.Close()

	adapter := NewContactsAdapter(config.ContactsConfig{URL: server.URL}, "k")

	ids, err := adapter.Resolve(context.Background(), "Nobody")

	require.NoError(t, err)
	assert.Empty(t, ids)
}

// TestContactsAdapter_Resolve_APIError verifies failures surface to the caller.
func TestContactsAdapter_Resolve_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := NewContactsAdapter(config.ContactsConfig{URL: server.URL}, "k")

	_, err := adapter.Resolve(context.Background(), "John")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
