// Package query turns the raw parameters of a listing request into a
// QueryDescriptor (filters, sort keys, projection, skip/take) and computes
// page navigation from a total record count.
//
// Everything here is a pure transform: no I/O, no shared state. The
// descriptor is handed to the persistence layer, which owns execution.
package query

import "strings"

// Reserved control keys. They are never turned into filters.
const (
	KeySelect = "select"
	KeySort   = "sort"
	KeyPage   = "page"
	KeyLimit  = "limit"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 5
	DefaultSortField = "createdAt"
)

var reservedKeys = map[string]struct{}{
	KeySelect: {},
	KeySort:   {},
	KeyPage:   {},
	KeyLimit:  {},
}

// IsReserved reports whether key is one of select, sort, page, limit.
func IsReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// Operator is the comparison a FilterExpression applies.
type Operator int

const (
	Equals Operator = iota
	GreaterThan
	GreaterOrEqual
	LessThan
	LessOrEqual
	In
)

var operatorsByName = map[string]Operator{
	"gt":  GreaterThan,
	"gte": GreaterOrEqual,
	"lt":  LessThan,
	"lte": LessOrEqual,
	"in":  In,
}

// ParseOperator maps a wire operator name (gt, gte, lt, lte, in) to its Operator.
// Equality has no wire name: it is expressed by a plain value.
func ParseOperator(name string) (Operator, bool) {
	op, ok := operatorsByName[strings.ToLower(strings.TrimSpace(name))]
	return op, ok
}

func (o Operator) String() string {
	switch o {
	case Equals:
		return "eq"
	case GreaterThan:
		return "gt"
	case GreaterOrEqual:
		return "gte"
	case LessThan:
		return "lt"
	case LessOrEqual:
		return "lte"
	case In:
		return "in"
	default:
		return "unknown"
	}
}

// FilterExpression is one field/operator/value constraint.
// For In the Value is always a []any.
type FilterExpression struct {
	Field    string
	Operator Operator
	Value    any
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

type SortKey struct {
	Field     string
	Direction Direction
}

// Descriptor is the validated, executable form of a listing request.
// An empty Projection means "all fields".
type Descriptor struct {
	Filters    []FilterExpression
	Sort       []SortKey
	Projection []string
	Page       int
	Limit      int
	Skip       int
	Take       int
}

// Parameters is the decoded request: field name -> literal value, or field
// name -> map of operator name to value (e.g. price[gte]=10 decodes to
// {"price": {"gte": "10"}}).
type Parameters map[string]any
