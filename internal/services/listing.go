package services

import (
	"context"

	"niuniq/internal/infrastructure/bd"
	"niuniq/internal/repositories"
	"niuniq/pkg/metrics"
	"niuniq/pkg/query"
)

// ListResult is one page of a filtered listing.
type ListResult struct {
	Records    []map[string]any
	Pagination query.Pagination
}

// lister runs planner descriptors for one resource.
type lister struct {
	resource string
	schema   bd.Schema
	planner  *query.Planner
	repo     repositories.ListingRepositoryInterface
}

func newLister(resource string, schema bd.Schema, maxLimit int, repo repositories.ListingRepositoryInterface) lister {
	return lister{
		resource: resource,
		schema:   schema,
		planner:  query.NewPlanner(query.WithAllowedFields(schema.FieldNames()...), query.WithMaxLimit(maxLimit)),
		repo:     repo,
	}
}

// list counts and fetches with the same descriptor so forced filters scope
// both the total and the page.
func (l lister) list(ctx context.Context, params query.Parameters, forced map[string]any) (*ListResult, error) {
	desc := l.planner.BuildFilter(params, forced)
	metrics.ListQueries.WithLabelValues(l.resource).Inc()

	total, err := l.repo.Count(ctx, l.schema, desc)
	if err != nil {
		return nil, err
	}
	records := []map[string]any{}
	if total > 0 {
		records, err = l.repo.Find(ctx, l.schema, desc)
		if err != nil {
			return nil, err
		}
	}
	return &ListResult{Records: records, Pagination: desc.Pagination(total)}, nil
}
