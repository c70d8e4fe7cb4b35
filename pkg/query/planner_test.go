package query

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter_Scenario(t *testing.T) {
	params := Parameters{
		"price":    map[string]any{"gte": 100},
		"category": "tools",
		"sort":     "-createdAt,name",
		"page":     "2",
		"limit":    "10",
	}

	d := BuildFilter(params, map[string]any{"store": "S1"})

	assert.ElementsMatch(t, []FilterExpression{
		{Field: "price", Operator: GreaterOrEqual, Value: 100},
		{Field: "category", Operator: Equals, Value: "tools"},
		{Field: "store", Operator: Equals, Value: "S1"},
	}, d.Filters)
	assert.Equal(t, []SortKey{
		{Field: "createdAt", Direction: Descending},
		{Field: "name", Direction: Ascending},
	}, d.Sort)
	assert.Equal(t, 10, d.Skip)
	assert.Equal(t, 10, d.Take)
	assert.Empty(t, d.Projection)
}

func TestBuildFilter_EmptyParams(t *testing.T) {
	d := BuildFilter(Parameters{}, map[string]any{})

	assert.Empty(t, d.Filters)
	assert.Equal(t, []SortKey{{Field: "createdAt", Direction: Descending}}, d.Sort)
	assert.Equal(t, 0, d.Skip)
	assert.Equal(t, 5, d.Take)
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, 5, d.Limit)
}

func TestBuildFilter_ReservedKeysNeverFilter(t *testing.T) {
	d := BuildFilter(Parameters{
		"select": "name",
		"sort":   "name",
		"page":   "3",
		"limit":  "2",
		"name":   "x",
	}, nil)

	for _, f := range d.Filters {
		assert.False(t, IsReserved(f.Field), "reserved key %q leaked into filters", f.Field)
	}
	require.Len(t, d.Filters, 1)
	assert.Equal(t, "name", d.Filters[0].Field)
}

func TestBuildFilter_ForcedFiltersWin(t *testing.T) {
	params := Parameters{
		"store": map[string]any{"in": "S2,S3"},
		"name":  "lamp",
	}
	d := BuildFilter(params, map[string]any{"store": "S1"})

	var storeFilters []FilterExpression
	for _, f := range d.Filters {
		if f.Field == "store" {
			storeFilters = append(storeFilters, f)
		}
	}
	assert.Equal(t, []FilterExpression{{Field: "store", Operator: Equals, Value: "S1"}}, storeFilters)
}

func TestBuildFilter_ForcedReservedKeysIgnored(t *testing.T) {
	d := BuildFilter(Parameters{"page": "2"}, map[string]any{"page": "9", "limit": "1", "store": "S1"})

	assert.Equal(t, []FilterExpression{{Field: "store", Operator: Equals, Value: "S1"}}, d.Filters)
	assert.Equal(t, 2, d.Page)
	assert.Equal(t, DefaultLimit, d.Limit)
}

func TestBuildFilter_DoesNotMutateInputs(t *testing.T) {
	params := Parameters{"page": "2", "name": "x", "price": map[string]any{"lt": "5"}}
	forced := map[string]any{"store": "S1"}

	_ = BuildFilter(params, forced)

	assert.Equal(t, Parameters{"page": "2", "name": "x", "price": map[string]any{"lt": "5"}}, params)
	assert.Equal(t, map[string]any{"store": "S1"}, forced)
}

func TestBuildFilter_Deterministic(t *testing.T) {
	params := Parameters{
		"b":     "1",
		"a":     map[string]any{"gt": "1", "lt": "9", "in": "1,2"},
		"c":     "z",
		"sort":  "name,-price",
		"limit": "7",
	}
	forced := map[string]any{"store": "S1", "user": "U1"}

	first := BuildFilter(params, forced)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildFilter(params, forced))
	}
}

func TestBuildFilter_OperatorExpressions(t *testing.T) {
	d := BuildFilter(Parameters{
		"price": map[string]any{"gt": "1", "lte": "9", "bogus": "3"},
		"tag":   map[string]string{"in": "a, b,,c"},
	}, nil)

	assert.Equal(t, []FilterExpression{
		{Field: "price", Operator: GreaterThan, Value: "1"},
		{Field: "price", Operator: LessOrEqual, Value: "9"},
		{Field: "tag", Operator: In, Value: []any{"a", "b", "c"}},
	}, d.Filters)
}

func TestBuildFilter_FieldNamedLikeOperator(t *testing.T) {
	d := BuildFilter(Parameters{"gt": "5"}, nil)

	assert.Equal(t, []FilterExpression{{Field: "gt", Operator: Equals, Value: "5"}}, d.Filters)
}

func TestBuildFilter_DropsNonJSONValues(t *testing.T) {
	d := BuildFilter(Parameters{
		"ok":     "1",
		"nan":    math.NaN(),
		"fn":     func() {},
		"nested": map[string]any{"gt": make(chan int)},
	}, nil)

	assert.Equal(t, []FilterExpression{{Field: "ok", Operator: Equals, Value: "1"}}, d.Filters)
}

func TestBuildFilter_SelectAndSort(t *testing.T) {
	d := BuildFilter(Parameters{
		"select": " name, price ,,name",
		"sort":   "-price, ,name,-",
	}, nil)

	assert.Equal(t, []string{"name", "price"}, d.Projection)
	assert.Equal(t, []SortKey{
		{Field: "price", Direction: Descending},
		{Field: "name", Direction: Ascending},
	}, d.Sort)
}

func TestPlanner_AllowList(t *testing.T) {
	p := NewPlanner(WithAllowedFields("name", "price", "createdAt"))

	d := p.BuildFilter(Parameters{
		"name":     "lamp",
		"password": "secret",
		"gt":       "1",
		"select":   "name,password",
		"sort":     "-password",
	}, map[string]any{"store": "S1"})

	assert.Equal(t, []FilterExpression{
		{Field: "name", Operator: Equals, Value: "lamp"},
		{Field: "store", Operator: Equals, Value: "S1"},
	}, d.Filters)
	assert.Equal(t, []string{"name"}, d.Projection)
	assert.Equal(t, []SortKey{{Field: "createdAt", Direction: Descending}}, d.Sort)
}

func TestPlanner_MaxLimit(t *testing.T) {
	p := NewPlanner(WithMaxLimit(50))

	d := p.BuildFilter(Parameters{"limit": "500", "page": "3"}, nil)

	assert.Equal(t, 50, d.Limit)
	assert.Equal(t, 100, d.Skip)
}

func TestPlanner_NoCapByDefault(t *testing.T) {
	d := NewPlanner().BuildFilter(Parameters{"limit": "500", "page": "2"}, nil)

	assert.Equal(t, 500, d.Take)
	assert.Equal(t, 500, d.Skip)
}

func TestSkipAndTake(t *testing.T) {
	for page := 1; page <= 6; page++ {
		for limit := 1; limit <= 6; limit++ {
			d := BuildFilter(Parameters{"page": page, "limit": limit}, nil)
			assert.Equal(t, (page-1)*limit, d.Skip)
			assert.Equal(t, limit, d.Take)
		}
	}
}

func TestSkip_HugePageDoesNotOverflow(t *testing.T) {
	d := BuildFilter(Parameters{"page": "9223372036854775807", "limit": "10"}, nil)

	assert.Equal(t, math.MaxInt, d.Skip)
}

func TestParsePositiveInt(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want int
	}{
		{"absent", nil, 5},
		{"empty", "", 5},
		{"text", "abc", 5},
		{"zero", "0", 5},
		{"negative", "-3", 5},
		{"fraction string", "2.5", 5},
		{"fraction float", 2.5, 5},
		{"padded", " 12 ", 12},
		{"int", 7, 7},
		{"float integral", float64(3), 3},
		{"slice", []string{"4", "9"}, 4},
		{"bool", true, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParsePositiveInt(tc.raw, 5))
		})
	}
}

func TestParseValues(t *testing.T) {
	values, err := url.ParseQuery("category=tools&price[gte]=10&price[lt]=99&tag[in]=a,b&tag[in]=c&sort=-createdAt&name=x&name=y&weird[=1")
	require.NoError(t, err)

	params := ParseValues(values)

	assert.Equal(t, "tools", params["category"])
	assert.Equal(t, map[string]any{"gte": "10", "lt": "99"}, params["price"])
	assert.Equal(t, map[string]any{"in": "a,b,c"}, params["tag"])
	assert.Equal(t, "-createdAt", params["sort"])
	assert.Equal(t, "x", params["name"])
	assert.Equal(t, "1", params["weird["])
}

func TestParseValues_OperatorFormWins(t *testing.T) {
	values, err := url.ParseQuery("price=5&price[gt]=3")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"gt": "3"}, ParseValues(values)["price"])
}

func TestParseValues_ThenBuildFilter(t *testing.T) {
	values, err := url.ParseQuery("select=name,price&sort=-price&page=abc&limit=&price[gte]=100&category=tools")
	require.NoError(t, err)

	d := BuildFilter(ParseValues(values), map[string]any{"store": "7"})

	assert.Equal(t, []FilterExpression{
		{Field: "category", Operator: Equals, Value: "tools"},
		{Field: "price", Operator: GreaterOrEqual, Value: "100"},
		{Field: "store", Operator: Equals, Value: "7"},
	}, d.Filters)
	assert.Equal(t, []string{"name", "price"}, d.Projection)
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, 5, d.Limit)
}

func TestParseValues_OperatorCaseFolded(t *testing.T) {
	values, err := url.ParseQuery("price[GTE]=2&price[gte]=1&tag[IN]=a&tag[in]=b")
	require.NoError(t, err)

	params := ParseValues(values)
	assert.Equal(t, map[string]any{"gte": "2"}, params["price"])
	assert.Equal(t, map[string]any{"in": "a,b"}, params["tag"])

	for i := 0; i < 20; i++ {
		d := BuildFilter(Parameters{"price": map[string]any{"gte": "1", "GTE": "2"}}, nil)
		assert.Equal(t, []FilterExpression{{Field: "price", Operator: GreaterOrEqual, Value: "2"}}, d.Filters)
	}
}

func TestParseOperator(t *testing.T) {
	for name, want := range map[string]Operator{"gt": GreaterThan, "GTE": GreaterOrEqual, "lt": LessThan, "lte": LessOrEqual, " in ": In} {
		op, ok := ParseOperator(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, op, name)
	}
	_, ok := ParseOperator("eq")
	assert.False(t, ok)
}
