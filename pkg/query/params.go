package query

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ParseValues decodes a URL query into Parameters.
//
//	category=tools       -> {"category": "tools"}
//	price[gte]=10        -> {"price": {"gte": "10"}}
//	tag[in]=a,b&tag[in]=c -> {"tag": {"in": "a,b,c"}}
//
// When a field is sent both as a literal and with operators, the operator
// form wins. Keys are visited in sorted order so the result does not depend
// on map iteration.
func ParseValues(values url.Values) Parameters {
	params := make(Parameters, len(values))

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if key == "" || len(vals) == 0 {
			continue
		}

		field, op, nested := splitBracketKey(key)
		if !nested {
			if _, exists := params[key]; !exists {
				params[key] = vals[0]
			}
			continue
		}
		op = strings.ToLower(strings.TrimSpace(op))
		if field == "" || op == "" {
			continue
		}

		ops, ok := params[field].(map[string]any)
		if !ok {
			ops = make(map[string]any)
			params[field] = ops
		}
		switch {
		case op == "in":
			if prev, seen := ops[op].(string); seen {
				ops[op] = prev + "," + strings.Join(vals, ",")
			} else {
				ops[op] = strings.Join(vals, ",")
			}
		default:
			if _, seen := ops[op]; !seen {
				ops[op] = vals[0]
			}
		}
	}

	return params
}

func splitBracketKey(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// ParsePositiveInt is the one place where malformed numeric input silently
// degrades: anything that is not an integer >= 1 yields def.
func ParsePositiveInt(raw any, def int) int {
	var n int64
	switch v := raw.(type) {
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return def
		}
		n = parsed
	case []string:
		if len(v) == 0 {
			return def
		}
		return ParsePositiveInt(v[0], def)
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > math.MaxInt64 {
			return def
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return def
		}
		n = int64(v)
	default:
		return def
	}

	if n < 1 || n > math.MaxInt {
		return def
	}
	return int(n)
}
