package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"niuniq/internal/infrastructure/bd"
	"niuniq/pkg/query"
)

// ListingRepositoryInterface executes query descriptors. Count and Find apply
// the same filter set, forced filters included.
type ListingRepositoryInterface interface {
	Count(ctx context.Context, schema bd.Schema, desc query.Descriptor) (int64, error)
	Find(ctx context.Context, schema bd.Schema, desc query.Descriptor) ([]map[string]any, error)
}

type ListingRepository struct {
	storage *pgxpool.Pool
	timeout time.Duration
	logger  *zap.Logger
}

func NewListingRepository(storage *pgxpool.Pool, timeout time.Duration, logger *zap.Logger) ListingRepositoryInterface {
	return &ListingRepository{storage: storage, timeout: timeout, logger: logger}
}

func (r *ListingRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *ListingRepository) Count(ctx context.Context, schema bd.Schema, desc query.Descriptor) (int64, error) {
	builder, err := bd.CountBuilder(desc, schema)
	if err != nil {
		return 0, err
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query for %s: %w", schema.Table, err)
	}
	r.logger.Debug("count query", zap.String("query", sql), zap.Any("args", args))

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.storage.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", schema.Table, err)
	}
	return total, nil
}

func (r *ListingRepository) Find(ctx context.Context, schema bd.Schema, desc query.Descriptor) ([]map[string]any, error) {
	builder, err := bd.FindBuilder(desc, schema)
	if err != nil {
		return nil, err
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find query for %s: %w", schema.Table, err)
	}
	r.logger.Debug("find query", zap.String("query", sql), zap.Any("args", args))

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.storage.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", schema.Table, err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", schema.Table, err)
	}
	return records, nil
}
