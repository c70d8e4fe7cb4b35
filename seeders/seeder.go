package seeders

import (
	"bytes"
	"context"
	"fmt"
	"image/color"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"niuniq/config"
	"niuniq/internal/entities"
	"niuniq/internal/repositories"
	"niuniq/internal/services"
	"niuniq/pkg/filestorage"
	"niuniq/pkg/utils"
)

// productPhotos is how many photos each seeded product gets.
const productPhotos = 5

type Seeder struct {
	pool      *pgxpool.Pool
	users     repositories.UserRepositoryInterface
	stores    repositories.StoreRepositoryInterface
	products  repositories.ProductRepositoryInterface
	txManager repositories.TxManagerInterface
	storage   filestorage.FileStorageInterface
	qrCodes   services.QRCodeServiceInterface
	logger    *zap.Logger
}

func New(pool *pgxpool.Pool, storage filestorage.FileStorageInterface, publicBaseURL string, logger *zap.Logger) *Seeder {
	return &Seeder{
		pool:      pool,
		users:     repositories.NewUserRepository(pool, logger),
		stores:    repositories.NewStoreRepository(pool, logger),
		products:  repositories.NewProductRepository(pool, logger),
		txManager: repositories.NewTxManager(pool),
		storage:   storage,
		qrCodes:   services.NewQRCodeService(storage, publicBaseURL, logger),
		logger:    logger,
	}
}

type media struct {
	logo, photo, product []byte
}

func (s *Seeder) upload(ctx context.Context, data []byte, name, uploadContext string) (string, error) {
	key, err := s.storage.Save(ctx, bytes.NewReader(data), name, config.UploadContexts[uploadContext].PathPrefix)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return s.storage.URL(key), nil
}

// Import inserts the users, stores and products found in dataDir. Every
// product gets a fresh product id and a generated QR code.
func (s *Seeder) Import(ctx context.Context, dataDir string) error {
	data, err := LoadData(dataDir)
	if err != nil {
		return err
	}

	var m media
	if m.logo, err = loadImage(dataDir, "logo.png", color.RGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}); err != nil {
		return err
	}
	if m.photo, err = loadImage(dataDir, "store.png", color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}); err != nil {
		return err
	}
	if m.product, err = loadImage(dataDir, "product.png", color.RGBA{R: 0xf9, G: 0xa8, B: 0x25, A: 0xff}); err != nil {
		return err
	}

	owners := make(map[string]uint64, len(data.Users))
	for _, u := range data.Users {
		hash, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		role := u.Role
		if role == "" {
			role = entities.RoleUser
		}
		created, err := s.users.Create(ctx, &entities.User{
			Email: u.Email, NoTelepon: u.NoTelepon, Role: role, Password: hash,
		})
		if err != nil {
			return fmt.Errorf("create user %s: %w", u.Email, err)
		}
		owners[u.Email] = created.ID
	}
	s.logger.Info("users imported", zap.Int("count", len(owners)))

	stores := make(map[string]*entities.Store, len(data.Stores))
	for _, rec := range data.Stores {
		store, err := s.importStore(ctx, rec, owners[rec.Owner], m)
		if err != nil {
			return err
		}
		stores[rec.Name] = store
	}
	s.logger.Info("stores imported", zap.Int("count", len(stores)))

	for _, rec := range data.Products {
		if err := s.importProduct(ctx, rec, stores[rec.Store], m); err != nil {
			return err
		}
	}
	s.logger.Info("products imported", zap.Int("count", len(data.Products)))
	return nil
}

func (s *Seeder) importStore(ctx context.Context, rec StoreRecord, ownerID uint64, m media) (*entities.Store, error) {
	logo, err := s.upload(ctx, m.logo, "logo.png", config.UploadStoreLogo)
	if err != nil {
		return nil, err
	}
	photo, err := s.upload(ctx, m.photo, "store.png", config.UploadStorePhoto)
	if err != nil {
		return nil, err
	}

	var created *entities.Store
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		created, err = s.stores.Create(ctx, tx, &entities.Store{
			Name:           rec.Name,
			UserID:         ownerID,
			Logo:           logo,
			Photo:          photo,
			Ecommerces:     rec.Ecommerces,
			EcommercesURL:  rec.EcommercesURL,
			YearProduction: rec.YearProduction,
			Regency:        rec.Regency,
			Province:       rec.Province,
		})
		if err != nil {
			return err
		}
		return s.users.SetHasCreatedStore(ctx, tx, ownerID, true)
	})
	if err != nil {
		return nil, fmt.Errorf("create store %s: %w", rec.Name, err)
	}
	return created, nil
}

func (s *Seeder) importProduct(ctx context.Context, rec ProductRecord, store *entities.Store, m media) error {
	productID, err := services.NewProductID()
	if err != nil {
		return err
	}

	photos := make([]string, 0, productPhotos)
	for i := 1; i <= productPhotos; i++ {
		url, err := s.upload(ctx, m.product, fmt.Sprintf("photo_%s_%d.png", productID, i), config.UploadProductPhoto)
		if err != nil {
			return err
		}
		photos = append(photos, url)
	}
	qrURL, err := s.qrCodes.Create(ctx, productID)
	if err != nil {
		return err
	}

	product := &entities.Product{
		ProductID:      productID,
		Name:           rec.Name,
		RawMaterials:   rec.RawMaterials,
		Description:    rec.Description,
		ProductStorage: rec.ProductStorage,
		Category:       rec.Category,
		Price:          rec.Price,
		Photos:         photos,
		Video:          rec.Video,
		QRCode:         qrURL,
		StoreID:        store.ID,
		UserID:         store.UserID,
	}
	if rec.IsVerification.Valid {
		product.IsVerification = utils.ToPtr(rec.IsVerification.Bool)
	}
	if _, err := s.products.Create(ctx, nil, product); err != nil {
		return fmt.Errorf("create product %s: %w", rec.Name, err)
	}
	return nil
}

// Destroy deletes every row and the media the stores and products refer to.
func (s *Seeder) Destroy(ctx context.Context) error {
	urls, err := s.mediaURLs(ctx)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, `TRUNCATE TABLE products, stores, users RESTART IDENTITY CASCADE`); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}

	removed := 0
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.storage.Delete(ctx, url); err != nil {
			s.logger.Warn("failed to remove media", zap.String("url", url), zap.Error(err))
			continue
		}
		removed++
	}
	s.logger.Info("data destroyed", zap.Int("mediaRemoved", removed))
	return nil
}

func (s *Seeder) mediaURLs(ctx context.Context) ([]string, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	var urls []string

	storeSQL, _, err := psql.Select("logo", "photo").From("stores").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, storeSQL)
	if err != nil {
		return nil, fmt.Errorf("list store media: %w", err)
	}
	for rows.Next() {
		var logo, photo string
		if err := rows.Scan(&logo, &photo); err != nil {
			rows.Close()
			return nil, err
		}
		urls = append(urls, logo, photo)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	productSQL, _, err := psql.Select("photos", "qr_code").From("products").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err = s.pool.Query(ctx, productSQL)
	if err != nil {
		return nil, fmt.Errorf("list product media: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var photos []string
		var qr string
		if err := rows.Scan(&photos, &qr); err != nil {
			return nil, err
		}
		urls = append(urls, photos...)
		urls = append(urls, qr)
	}
	return urls, rows.Err()
}
