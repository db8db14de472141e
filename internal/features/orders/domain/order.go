package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// OrderStatus represents the fulfillment state of an order.
type OrderStatus string

const (
	// OrderStatusNotFulfilled indicates no item of the order has been shipped.
	OrderStatusNotFulfilled OrderStatus = "NOT_FULFILLED"
	// OrderStatusPartiallyFulfilled indicates some, but not all, items have been shipped.
	OrderStatusPartiallyFulfilled OrderStatus = "PARTIALLY_FULFILLED"
	// OrderStatusFulfilled indicates every item of the order has been shipped.
	OrderStatusFulfilled OrderStatus = "FULFILLED"
	// OrderStatusCanceled indicates the order was canceled.
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// StatusInitialized is the platform-side state of a checkout that has not
// been placed as an order yet. It never appears in the dashboard; remote
// queries always exclude it.
const StatusInitialized = "INITIALIZED"

// ValidStatus reports whether s is one of the dashboard fulfillment statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusNotFulfilled, OrderStatusPartiallyFulfilled, OrderStatusFulfilled, OrderStatusCanceled:
		return true
	}
	return false
}

// DefaultCustomerName is used when no contact block carries a name.
const DefaultCustomerName = "Unknown"

// ContactDetails holds the customer identity fields used for search.
type ContactDetails struct {
	// FirstName is the contact's first name.
	FirstName string `json:"first_name,omitempty"`
	// LastName is the contact's last name.
	LastName string `json:"last_name,omitempty"`
	// Email is the contact's email address.
	Email string `json:"email,omitempty"`
	// Phone is the contact's phone number.
	Phone string `json:"phone,omitempty"`
	// Company is the contact's company name.
	Company string `json:"company,omitempty"`
}

// Order represents a customer purchase record from the e-commerce platform.
// It is consumed read-only here except for Status, which the fulfillment
// workflow patches in place.
type Order struct {
	// ID is the opaque, stable, unique order identifier. Canonical merge key.
	ID string `json:"id"`
	// Number is the human-facing order sequence, unique per store.
	Number string `json:"number"`
	// Status is the current fulfillment state.
	Status OrderStatus `json:"fulfillment_status"`
	// CreatedAt is when the order was placed. Immutable; drives recency sort
	// and date-range filters.
	CreatedAt time.Time `json:"created_date"`
	// Recipient is the shipping recipient contact block.
	Recipient ContactDetails `json:"recipient,omitempty"`
	// Billing is the billing contact block.
	Billing ContactDetails `json:"billing,omitempty"`
	// Buyer is the buyer-level contact block (typically only email/phone).
	Buyer ContactDetails `json:"buyer,omitempty"`
	// Customer is the flattened identity resolved from the blocks above.
	Customer ContactDetails `json:"customer"`
	// BuyerContactID is the platform contact identifier of the buyer, used
	// for name-based remote filtering.
	BuyerContactID string `json:"buyer_contact_id,omitempty"`
	// Raw is the full platform order payload, retained for fields not
	// promoted to the flat shape (line items, discounts, custom fields).
	// Passthrough only; the search engine never interprets it.
	Raw json.RawMessage `json:"raw_order,omitempty"`
}

// ResolveCustomer flattens the contact blocks into a single identity using
// the recipient -> billing -> buyer precedence, field by field. Name fields
// fall back to DefaultCustomerName when every block is empty.
func ResolveCustomer(recipient, billing, buyer ContactDetails) ContactDetails {
	c := ContactDetails{
		FirstName: firstNonEmpty(recipient.FirstName, billing.FirstName, buyer.FirstName),
		LastName:  firstNonEmpty(recipient.LastName, billing.LastName, buyer.LastName),
		Email:     firstNonEmpty(recipient.Email, billing.Email, buyer.Email),
		Phone:     firstNonEmpty(recipient.Phone, billing.Phone, buyer.Phone),
		Company:   firstNonEmpty(recipient.Company, billing.Company, buyer.Company),
	}

	if c.FirstName == "" && c.LastName == "" {
		c.FirstName = DefaultCustomerName
	}

	return c
}

// firstNonEmpty returns the first non-empty value in order.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// MatchesQuery reports whether the order matches a free-text query.
// The query must already be lower-cased and trimmed. The test is a
// case-insensitive substring check against the order number and every
// populated customer identity field, returning on the first hit.
func (o *Order) MatchesQuery(query string) bool {
	if query == "" {
		return false
	}

	fields := []string{
		o.Number,
		o.Recipient.FirstName, o.Recipient.LastName,
		o.Billing.FirstName, o.Billing.LastName,
		o.Customer.FirstName, o.Customer.LastName,
		o.Recipient.Email, o.Billing.Email, o.Buyer.Email, o.Customer.Email,
		o.Recipient.Phone, o.Billing.Phone, o.Customer.Phone,
		o.Recipient.Company, o.Billing.Company, o.Customer.Company,
	}

	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}

	return false
}
