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

const productSelectFields = "p.id, p.product_id, p.name, p.raw_materials, p.description, p.product_storage, p.category, p.price, p.photos, p.video, p.is_verification, p.qr_code, p.store_id, p.user_id, p.created_at, p.updated_at"

type ProductRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, product *entities.Product) (*entities.Product, error)
	FindByID(ctx context.Context, id uint64) (*entities.Product, error)
	FindByProductID(ctx context.Context, productID string) (*entities.Product, error)
	Update(ctx context.Context, tx pgx.Tx, product *entities.Product) (*entities.Product, error)
	UpdateMedia(ctx context.Context, tx pgx.Tx, id uint64, photos []string, qrCode string) (*entities.Product, error)
	Delete(ctx context.Context, id uint64) error
	ListByStore(ctx context.Context, storeID uint64) ([]entities.Product, error)
	ListByUser(ctx context.Context, userID uint64) ([]entities.Product, error)
}

type ProductRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProductRepository(storage *pgxpool.Pool, logger *zap.Logger) ProductRepositoryInterface {
	return &ProductRepository{storage: storage, logger: logger}
}

func productScanTargets(product *entities.Product) []any {
	return []any{
		&product.ID, &product.ProductID, &product.Name, &product.RawMaterials, &product.Description,
		&product.ProductStorage, &product.Category, &product.Price, &product.Photos, &product.Video,
		&product.IsVerification, &product.QRCode, &product.StoreID, &product.UserID,
		&product.CreatedAt, &product.UpdatedAt,
	}
}

func scanProduct(row pgx.Row) (*entities.Product, error) {
	var product entities.Product
	if err := row.Scan(productScanTargets(&product)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func scanProductWithStore(row pgx.Row) (*entities.Product, error) {
	var (
		product entities.Product
		store   entities.Store
	)
	targets := append(productScanTargets(&product), storeScanTargets(&store)...)
	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	product.StoreDetail = &store
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, tx pgx.Tx, product *entities.Product) (*entities.Product, error) {
	query := fmt.Sprintf(`
		INSERT INTO products AS p (product_id, name, raw_materials, description, product_storage, category, price,
			photos, video, is_verification, qr_code, store_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING %s`, productSelectFields)

	created, err := scanProduct(pick(r.storage, tx).QueryRow(ctx, query,
		product.ProductID, product.Name, product.RawMaterials, product.Description, product.ProductStorage,
		product.Category, product.Price, nonNil(product.Photos), product.Video, product.IsVerification,
		product.QRCode, product.StoreID, product.UserID))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func (r *ProductRepository) findWithStore(ctx context.Context, where string, arg any) (*entities.Product, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM products p JOIN stores s ON s.id = p.store_id WHERE %s`,
		productSelectFields, storeSelectFields, where)
	return scanProductWithStore(r.storage.QueryRow(ctx, query, arg))
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (*entities.Product, error) {
	return r.findWithStore(ctx, "p.id = $1", id)
}

func (r *ProductRepository) FindByProductID(ctx context.Context, productID string) (*entities.Product, error) {
	return r.findWithStore(ctx, "p.product_id = $1", productID)
}

func (r *ProductRepository) Update(ctx context.Context, tx pgx.Tx, product *entities.Product) (*entities.Product, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update("products AS p").
		SetMap(map[string]interface{}{
			"name":            product.Name,
			"raw_materials":   product.RawMaterials,
			"description":     product.Description,
			"product_storage": product.ProductStorage,
			"category":        product.Category,
			"price":           product.Price,
			"photos":          nonNil(product.Photos),
			"video":           product.Video,
			"is_verification": product.IsVerification,
			"updated_at":      sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"p.id": product.ID}).
		Suffix("RETURNING " + productSelectFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product update: %w", err)
	}
	return scanProduct(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *ProductRepository) UpdateMedia(ctx context.Context, tx pgx.Tx, id uint64, photos []string, qrCode string) (*entities.Product, error) {
	query := fmt.Sprintf(`
		UPDATE products AS p SET photos = $1, qr_code = $2, updated_at = NOW()
		WHERE p.id = $3
		RETURNING %s`, productSelectFields)
	return scanProduct(pick(r.storage, tx).QueryRow(ctx, query, nonNil(photos), qrCode, id))
}

func (r *ProductRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) list(ctx context.Context, column string, id uint64) ([]entities.Product, error) {
	rows, err := r.storage.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM products p WHERE p.%s = $1 ORDER BY p.created_at DESC, p.id DESC`, productSelectFields, column), id)
	if err != nil {
		return nil, fmt.Errorf("list products by %s: %w", column, err)
	}
	defer rows.Close()

	products := make([]entities.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func (r *ProductRepository) ListByStore(ctx context.Context, storeID uint64) ([]entities.Product, error) {
	return r.list(ctx, "store_id", storeID)
}

func (r *ProductRepository) ListByUser(ctx context.Context, userID uint64) ([]entities.Product, error) {
	return r.list(ctx, "user_id", userID)
}
