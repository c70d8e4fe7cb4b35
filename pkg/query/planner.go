package query

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// Planner builds Descriptors for one listing resource. The zero value and
// NewPlanner() accept every field name; NewPlanner(fields...) restricts
// filters, projection and sort to the given allow-list.
type Planner struct {
	allowed  map[string]struct{}
	maxLimit int
}

type Option func(*Planner)

// WithMaxLimit caps the effective limit. Zero means no cap.
func WithMaxLimit(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxLimit = n
		}
	}
}

// WithAllowedFields restricts the field names the planner accepts.
func WithAllowedFields(fields ...string) Option {
	return func(p *Planner) {
		if len(fields) == 0 {
			return
		}
		p.allowed = make(map[string]struct{}, len(fields))
		for _, f := range fields {
			p.allowed[f] = struct{}{}
		}
	}
}

func NewPlanner(opts ...Option) *Planner {
	p := &Planner{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BuildFilter is Planner.BuildFilter on an unrestricted planner.
func BuildFilter(params Parameters, forced map[string]any) Descriptor {
	return (&Planner{}).BuildFilter(params, forced)
}

// BuildFilter translates params into a Descriptor. forced filters are ANDed
// in unconditionally and replace any client expression on the same field.
// Inputs are never modified.
func (p *Planner) BuildFilter(params Parameters, forced map[string]any) Descriptor {
	filters := make([]FilterExpression, 0, len(params)+len(forced))
	for field, value := range params {
		if IsReserved(field) || !p.accepts(field) {
			continue
		}
		if _, overridden := forced[field]; overridden {
			continue
		}
		filters = append(filters, expressionsFor(field, value)...)
	}
	sortExpressions(filters)

	forcedKeys := make([]string, 0, len(forced))
	for k := range forced {
		forcedKeys = append(forcedKeys, k)
	}
	sort.Strings(forcedKeys)
	for _, field := range forcedKeys {
		if IsReserved(field) || field == "" {
			continue
		}
		exprs := expressionsFor(field, forced[field])
		sortExpressions(exprs)
		filters = append(filters, exprs...)
	}

	page := ParsePositiveInt(params[KeyPage], DefaultPage)
	limit := ParsePositiveInt(params[KeyLimit], DefaultLimit)
	if p.maxLimit > 0 && limit > p.maxLimit {
		limit = p.maxLimit
	}

	return Descriptor{
		Filters:    filters,
		Sort:       p.parseSort(params[KeySort]),
		Projection: p.parseSelect(params[KeySelect]),
		Page:       page,
		Limit:      limit,
		Skip:       skipFor(page, limit),
		Take:       limit,
	}
}

func (p *Planner) accepts(field string) bool {
	if field == "" {
		return false
	}
	if p.allowed == nil {
		return true
	}
	_, ok := p.allowed[field]
	return ok
}

func skipFor(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// expressionsFor emits one expression per recognised operator of a nested
// mapping, or a single equality for a literal. Unknown operators and values
// that cannot be represented as JSON are dropped.
func expressionsFor(field string, value any) []FilterExpression {
	switch v := value.(type) {
	case map[string]any:
		return operatorExpressions(field, v)
	case map[string]string:
		converted := make(map[string]any, len(v))
		for k, s := range v {
			converted[k] = s
		}
		return operatorExpressions(field, converted)
	case []string:
		return single(field, In, toList(v))
	case []any:
		return single(field, In, toList(v))
	default:
		return single(field, Equals, v)
	}
}

// operatorExpressions keeps one expression per operator. Names that differ
// only in case resolve to the lexically smallest spelling.
func operatorExpressions(field string, ops map[string]any) []FilterExpression {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[Operator]bool, len(names))
	out := make([]FilterExpression, 0, len(ops))
	for _, name := range names {
		raw := ops[name]
		op, ok := ParseOperator(name)
		if !ok || seen[op] {
			continue
		}
		seen[op] = true
		if op == In {
			out = append(out, single(field, In, toList(raw))...)
			continue
		}
		out = append(out, single(field, op, raw)...)
	}
	return out
}

func single(field string, op Operator, value any) []FilterExpression {
	if !representable(value) {
		return nil
	}
	return []FilterExpression{{Field: field, Operator: op, Value: value}}
}

// toList normalises the operand of "in": comma separated strings are split,
// slices are flattened one level.
func toList(raw any) []any {
	switch v := raw.(type) {
	case string:
		return splitList(v)
	case []string:
		out := make([]any, 0, len(v))
		for _, s := range v {
			out = append(out, splitList(s)...)
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, splitList(s)...)
				continue
			}
			out = append(out, item)
		}
		return out
	default:
		return []any{v}
	}
}

func splitList(s string) []any {
	parts := strings.Split(s, ",")
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func representable(v any) bool {
	_, err := json.Marshal(v)
	return err == nil
}

func sortExpressions(filters []FilterExpression) {
	sort.SliceStable(filters, func(i, j int) bool {
		if filters[i].Field != filters[j].Field {
			return filters[i].Field < filters[j].Field
		}
		return filters[i].Operator < filters[j].Operator
	})
}

func (p *Planner) parseSelect(raw any) []string {
	tokens := fieldTokens(raw)
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tokens))
	fields := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !p.accepts(t) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		fields = append(fields, t)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (p *Planner) parseSort(raw any) []SortKey {
	keys := make([]SortKey, 0, 2)
	for _, t := range fieldTokens(raw) {
		dir := Ascending
		if strings.HasPrefix(t, "-") {
			dir = Descending
			t = strings.TrimSpace(t[1:])
		} else {
			t = strings.TrimSpace(strings.TrimPrefix(t, "+"))
		}
		if !p.accepts(t) {
			continue
		}
		keys = append(keys, SortKey{Field: t, Direction: dir})
	}
	if len(keys) == 0 {
		return []SortKey{{Field: DefaultSortField, Direction: Descending}}
	}
	return keys
}

func fieldTokens(raw any) []string {
	var joined string
	switch v := raw.(type) {
	case string:
		joined = v
	case []string:
		joined = strings.Join(v, ",")
	default:
		return nil
	}
	var out []string
	for _, t := range strings.Split(joined, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
