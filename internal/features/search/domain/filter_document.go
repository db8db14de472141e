package domain

import "encoding/json"

// PredicateOp is a filter-document operator understood by the platform's
// order query API.
type PredicateOp string

const (
	OpEq         PredicateOp = "$eq"
	OpNe         PredicateOp = "$ne"
	OpIn         PredicateOp = "$in"
	OpStartsWith PredicateOp = "$startsWith"
	OpGte        PredicateOp = "$gte"
	OpLt         PredicateOp = "$lt"
)

// Predicate is a single operator/value pair applied to a field.
type Predicate struct {
	Op    PredicateOp
	Value any
}

// FilterDocument is a structured remote-query filter: a conjunction of
// field-level predicates. A field may carry several predicates (e.g. a
// date range uses $gte and $lt on the same field).
type FilterDocument struct {
	fields []string
	byName map[string][]Predicate
}

// NewFilterDocument returns an empty filter document.
func NewFilterDocument() *FilterDocument {
	return &FilterDocument{byName: make(map[string][]Predicate)}
}

// Add appends a predicate for the field, preserving field insertion order.
func (d *FilterDocument) Add(field string, op PredicateOp, value any) *FilterDocument {
	if _, ok := d.byName[field]; !ok {
		d.fields = append(d.fields, field)
	}
	d.byName[field] = append(d.byName[field], Predicate{Op: op, Value: value})
	return d
}

// Predicates returns the predicates registered for a field.
func (d *FilterDocument) Predicates(field string) []Predicate {
	return d.byName[field]
}

// Fields returns the filtered field names in insertion order.
func (d *FilterDocument) Fields() []string {
	return d.fields
}

// MarshalJSON encodes the document in the platform wire shape:
//
//	{"status": {"$ne": "INITIALIZED"}, "createdDate": {"$gte": "...", "$lt": "..."}}
func (d *FilterDocument) MarshalJSON() ([]byte, error) {
	doc := make(map[string]map[string]any, len(d.fields))
	for field, preds := range d.byName {
		clause := make(map[string]any, len(preds))
		for _, p := range preds {
			clause[string(p.Op)] = p.Value
		}
		doc[field] = clause
	}
	return json.Marshal(doc)
}
