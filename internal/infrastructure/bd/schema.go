// Package bd translates query descriptors into squirrel builders. Every
// resource declares a Schema mapping API field names to SQL columns; fields
// outside the schema never reach SQL.
package bd

import (
	"fmt"
	"sort"
	"strings"
)

// Kind drives how filter values are coerced before they are bound.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindID
	KindTextArray
)

type Field struct {
	Column string
	Kind   Kind
}

type Schema struct {
	Table string
	Alias string
	// Joins are full join clauses, e.g. "stores s ON s.id = p.store_id".
	Joins []string
	// Fields maps API names (as clients send and receive them) to columns.
	Fields map[string]Field
	// DefaultProjection is the ordered list of API fields returned when the
	// client does not ask for specific ones.
	DefaultProjection []string
}

func (s Schema) From() string {
	if s.Alias == "" {
		return s.Table
	}
	return fmt.Sprintf("%s AS %s", s.Table, s.Alias)
}

// FieldNames lists the API names in sorted order, suitable for a planner
// allow-list.
func (s Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Schema) field(name string) (Field, bool) {
	f, ok := s.Fields[name]
	return f, ok
}

// idColumn is the primary key column used for tie-breaking and projection.
func (s Schema) idColumn() string {
	if f, ok := s.Fields["id"]; ok {
		return f.Column
	}
	if s.Alias != "" {
		return s.Alias + ".id"
	}
	return "id"
}

// SelectColumns renders `column AS "apiName"` for the projection. id is always
// included first; unknown and duplicate names are skipped. An empty
// projection selects DefaultProjection.
func (s Schema) SelectColumns(projection []string) []string {
	names := projection
	if len(names) == 0 {
		names = s.DefaultProjection
	}

	cols := []string{fmt.Sprintf(`%s AS "id"`, s.idColumn())}
	seen := map[string]struct{}{"id": {}}
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		f, ok := s.field(name)
		if !ok {
			continue
		}
		seen[name] = struct{}{}
		cols = append(cols, fmt.Sprintf(`%s AS "%s"`, f.Column, strings.ReplaceAll(name, `"`, "")))
	}
	return cols
}
