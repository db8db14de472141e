package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"orders-dashboard/internal/core/logger"
	ordersdomain "orders-dashboard/internal/features/orders/domain"
	"orders-dashboard/internal/features/search/domain"
	"orders-dashboard/internal/features/search/ports"

	"go.uber.org/zap"
)

// Platform filter field names.
const (
	fieldStatus            = "status"
	fieldFulfillmentStatus = "fulfillmentStatus"
	fieldNumber            = "number"
	fieldBuyerEmail        = "buyerInfo.email"
	fieldBuyerContactID    = "buyerInfo.contactId"
	fieldCreatedDate       = "createdDate"
)

// minNameQueryLength is the shortest query treated as a name search.
const minNameQueryLength = 2

var (
	orderNumberPattern = regexp.MustCompile(`^\d+$`)
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// QueryBuilder translates a free-text query plus filters into the
// structured filter document the platform's order search API accepts.
type QueryBuilder struct {
	contacts ports.ContactDirectory
}

// NewQueryBuilder creates a QueryBuilder. The contact directory may be nil,
// in which case name queries produce the base filter only.
func NewQueryBuilder(contacts ports.ContactDirectory) *QueryBuilder {
	return &QueryBuilder{contacts: contacts}
}

// Build classifies the query and produces a filter document. The first
// matching rule wins:
//
//  1. all digits        -> exact match on the order number
//  2. full email        -> exact match on the buyer email
//  3. contains '@'      -> prefix match on the buyer email
//  4. length >= 2       -> name search via the contact directory
//  5. anything else     -> base filter only
//
// The base filter always excludes not-yet-placed checkouts. Contact lookup
// failures and empty resolutions degrade to the base filter, deferring name
// matching to the local scanner; Build never returns an error.
func (b *QueryBuilder) Build(ctx context.Context, query string, filters domain.SearchFilters) *domain.FilterDocument {
	doc := domain.NewFilterDocument().Add(fieldStatus, domain.OpNe, ordersdomain.StatusInitialized)

	trimmed := strings.TrimSpace(query)
	switch {
	case trimmed == "":
		// base filter only

	case orderNumberPattern.MatchString(trimmed):
		if number, err := strconv.Atoi(trimmed); err == nil {
			doc.Add(fieldNumber, domain.OpEq, number)
		}

	case emailPattern.MatchString(trimmed):
		doc.Add(fieldBuyerEmail, domain.OpEq, strings.ToLower(trimmed))

	case strings.Contains(trimmed, "@"):
		doc.Add(fieldBuyerEmail, domain.OpStartsWith, strings.ToLower(trimmed))

	case utf8.RuneCountInString(trimmed) >= minNameQueryLength:
		b.addContactClause(ctx, doc, trimmed)
	}

	b.applyFilters(doc, filters)
	return doc
}

// addContactClause resolves the name fragment to contact identifiers and
// narrows the query to those buyers. Failures are swallowed: the remote
// query then returns everything and the local scan narrows it.
func (b *QueryBuilder) addContactClause(ctx context.Context, doc *domain.FilterDocument, name string) {
	if b.contacts == nil {
		return
	}

	ids, err := b.contacts.Resolve(ctx, name)
	if err != nil {
		logger.Get().Warn("Contact lookup failed, deferring name match to local scan",
			zap.String("query", name),
			zap.Error(err),
		)
		return
	}
	if len(ids) == 0 {
		return
	}

	doc.Add(fieldBuyerContactID, domain.OpIn, ids)
}

// applyFilters layers status and date constraints onto the document.
func (b *QueryBuilder) applyFilters(doc *domain.FilterDocument, filters domain.SearchFilters) {
	switch len(filters.Statuses) {
	case 0:
	case 1:
		doc.Add(fieldFulfillmentStatus, domain.OpEq, string(filters.Statuses[0]))
	default:
		statuses := make([]string, 0, len(filters.Statuses))
		for _, s := range filters.Statuses {
			statuses = append(statuses, string(s))
		}
		doc.Add(fieldFulfillmentStatus, domain.OpIn, statuses)
	}

	if filters.DateFrom != nil {
		doc.Add(fieldCreatedDate, domain.OpGte, filters.DateFrom.UTC().Format(time.RFC3339))
	}
	if filters.DateTo != nil {
		// Exclusive upper bound on the day after DateTo.
		to := filters.DateTo.UTC()
		upper := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		doc.Add(fieldCreatedDate, domain.OpLt, upper.Format(time.RFC3339))
	}
}
