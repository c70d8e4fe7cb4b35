package bd

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"niuniq/pkg/query"
)

// ApplyFilters ANDs every expression whose field is in the schema. Client and
// forced filters are treated alike so count and fetch always agree.
func ApplyFilters(builder sq.SelectBuilder, filters []query.FilterExpression, schema Schema) (sq.SelectBuilder, error) {
	for _, expr := range filters {
		f, ok := schema.field(expr.Field)
		if !ok {
			continue
		}
		cond, err := condition(expr, f)
		if err != nil {
			return builder, err
		}
		builder = builder.Where(cond)
	}
	return builder, nil
}

func condition(expr query.FilterExpression, f Field) (sq.Sqlizer, error) {
	if expr.Operator == query.In {
		return inCondition(expr, f)
	}

	value, err := coerce(expr.Field, f.Kind, expr.Value)
	if err != nil {
		return nil, err
	}

	if f.Kind == KindTextArray {
		if expr.Operator != query.Equals {
			return nil, invalidValue(expr.Field, expr.Operator.String())
		}
		if value == nil {
			return sq.Expr(fmt.Sprintf("cardinality(%s) = 0", f.Column)), nil
		}
		return sq.Expr(fmt.Sprintf("? = ANY(%s)", f.Column), value), nil
	}

	if value == nil && expr.Operator != query.Equals {
		return nil, invalidValue(expr.Field, expr.Value)
	}

	switch expr.Operator {
	case query.Equals:
		return sq.Eq{f.Column: value}, nil
	case query.GreaterThan:
		return sq.Gt{f.Column: value}, nil
	case query.GreaterOrEqual:
		return sq.GtOrEq{f.Column: value}, nil
	case query.LessThan:
		return sq.Lt{f.Column: value}, nil
	case query.LessOrEqual:
		return sq.LtOrEq{f.Column: value}, nil
	default:
		return nil, invalidValue(expr.Field, expr.Operator.String())
	}
}

// inCondition renders an empty list as a condition matching nothing.
func inCondition(expr query.FilterExpression, f Field) (sq.Sqlizer, error) {
	raw, ok := expr.Value.([]any)
	if !ok {
		raw = []any{expr.Value}
	}

	values := make([]any, 0, len(raw))
	for _, item := range raw {
		v, err := coerce(expr.Field, f.Kind, item)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if f.Kind == KindTextArray {
		texts := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.(string); ok {
				texts = append(texts, s)
			}
		}
		return sq.Expr(fmt.Sprintf("%s && ?", f.Column), texts), nil
	}
	return sq.Eq{f.Column: values}, nil
}

// ApplySort orders by the requested keys and breaks ties on the primary key
// so pages never overlap.
func ApplySort(builder sq.SelectBuilder, keys []query.SortKey, schema Schema) sq.SelectBuilder {
	idCol := schema.idColumn()
	sortedByID := false
	for _, key := range keys {
		f, ok := schema.field(key.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if key.Direction == query.Descending {
			dir = "DESC"
		}
		if f.Column == idCol {
			sortedByID = true
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", f.Column, dir))
	}
	if !sortedByID {
		builder = builder.OrderBy(idCol + " DESC")
	}
	return builder
}

func ApplyPage(builder sq.SelectBuilder, desc query.Descriptor) sq.SelectBuilder {
	if desc.Take > 0 {
		builder = builder.Limit(uint64(desc.Take))
	}
	if desc.Skip > 0 {
		builder = builder.Offset(uint64(desc.Skip))
	}
	return builder
}

func applyJoins(builder sq.SelectBuilder, schema Schema) sq.SelectBuilder {
	for _, join := range schema.Joins {
		builder = builder.LeftJoin(join)
	}
	return builder
}

// CountBuilder selects the number of rows matching desc's filters.
func CountBuilder(desc query.Descriptor, schema Schema) (sq.SelectBuilder, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := applyJoins(psql.Select("COUNT(*)").From(schema.From()), schema)
	return ApplyFilters(builder, desc.Filters, schema)
}

// FindBuilder selects one page of rows with the projection, sort and paging
// of desc.
func FindBuilder(desc query.Descriptor, schema Schema) (sq.SelectBuilder, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := applyJoins(psql.Select(schema.SelectColumns(desc.Projection)...).From(schema.From()), schema)

	builder, err := ApplyFilters(builder, desc.Filters, schema)
	if err != nil {
		return builder, err
	}
	builder = ApplySort(builder, desc.Sort, schema)
	return ApplyPage(builder, desc), nil
}
