package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"niuniq/internal/entities"
	apperrors "niuniq/pkg/errors"
)

const storeSelectFields = "s.id, s.name, s.user_id, s.logo, s.photo, s.ecommerces, s.ecommerces_url, s.year_production, s.regency, s.province, s.created_at, s.updated_at"

type StoreRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, store *entities.Store) (*entities.Store, error)
	FindByID(ctx context.Context, id uint64) (*entities.Store, error)
	FindByUser(ctx context.Context, userID uint64) (*entities.Store, error)
	ListByUser(ctx context.Context, userID uint64) ([]entities.Store, error)
	Update(ctx context.Context, tx pgx.Tx, store *entities.Store) (*entities.Store, error)
	UpdateName(ctx context.Context, id uint64, name string) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	CountByUser(ctx context.Context, tx pgx.Tx, userID uint64) (int64, error)
}

type StoreRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewStoreRepository(storage *pgxpool.Pool, logger *zap.Logger) StoreRepositoryInterface {
	return &StoreRepository{storage: storage, logger: logger}
}

func storeScanTargets(store *entities.Store) []any {
	return []any{
		&store.ID, &store.Name, &store.UserID, &store.Logo, &store.Photo,
		&store.Ecommerces, &store.EcommercesURL, &store.YearProduction,
		&store.Regency, &store.Province, &store.CreatedAt, &store.UpdatedAt,
	}
}

func scanStore(row pgx.Row) (*entities.Store, error) {
	var store entities.Store
	if err := row.Scan(storeScanTargets(&store)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (r *StoreRepository) Create(ctx context.Context, tx pgx.Tx, store *entities.Store) (*entities.Store, error) {
	query := fmt.Sprintf(`
		INSERT INTO stores AS s (name, user_id, logo, photo, ecommerces, ecommerces_url, year_production, regency, province)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, storeSelectFields)

	created, err := scanStore(pick(r.storage, tx).QueryRow(ctx, query,
		store.Name, store.UserID, store.Logo, store.Photo, nonNil(store.Ecommerces), nonNil(store.EcommercesURL),
		store.YearProduction, store.Regency, store.Province))
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return created, nil
}

// FindByID returns the store with its products.
func (r *StoreRepository) FindByID(ctx context.Context, id uint64) (*entities.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores s WHERE s.id = $1`, storeSelectFields)
	store, err := scanStore(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM products p WHERE p.store_id = $1 ORDER BY p.created_at DESC, p.id DESC`, productSelectFields), id)
	if err != nil {
		return nil, fmt.Errorf("load products of store %d: %w", id, err)
	}
	defer rows.Close()

	store.Products = make([]entities.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		store.Products = append(store.Products, *product)
	}
	return store, rows.Err()
}

func (r *StoreRepository) FindByUser(ctx context.Context, userID uint64) (*entities.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores s WHERE s.user_id = $1 ORDER BY s.id LIMIT 1`, storeSelectFields)
	return scanStore(r.storage.QueryRow(ctx, query, userID))
}

func (r *StoreRepository) ListByUser(ctx context.Context, userID uint64) ([]entities.Store, error) {
	rows, err := r.storage.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM stores s WHERE s.user_id = $1 ORDER BY s.id`, storeSelectFields), userID)
	if err != nil {
		return nil, fmt.Errorf("list stores of user %d: %w", userID, err)
	}
	defer rows.Close()

	stores := make([]entities.Store, 0)
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *store)
	}
	return stores, rows.Err()
}

func (r *StoreRepository) Update(ctx context.Context, tx pgx.Tx, store *entities.Store) (*entities.Store, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update("stores AS s").
		SetMap(map[string]interface{}{
			"name":            store.Name,
			"logo":            store.Logo,
			"photo":           store.Photo,
			"ecommerces":      nonNil(store.Ecommerces),
			"ecommerces_url":  nonNil(store.EcommercesURL),
			"year_production": store.YearProduction,
			"regency":         store.Regency,
			"province":        store.Province,
			"updated_at":      sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"s.id": store.ID}).
		Suffix("RETURNING " + storeSelectFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build store update: %w", err)
	}
	return scanStore(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *StoreRepository) UpdateName(ctx context.Context, id uint64, name string) error {
	result, err := r.storage.Exec(ctx, `UPDATE stores SET name = $1, updated_at = NOW() WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes the store and, through the foreign key, its products.
func (r *StoreRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := pick(r.storage, tx).Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *StoreRepository) CountByUser(ctx context.Context, tx pgx.Tx, userID uint64) (int64, error) {
	var count int64
	err := pick(r.storage, tx).QueryRow(ctx, `SELECT COUNT(*) FROM stores WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
