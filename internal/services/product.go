package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"niuniq/config"
	"niuniq/internal/dto"
	"niuniq/internal/entities"
	"niuniq/internal/events"
	"niuniq/internal/repositories"
	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/filestorage"
	"niuniq/pkg/query"
	"niuniq/pkg/utils"
	"niuniq/pkg/validation"
)

const (
	productIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	productIDLength   = 10
)

// NewProductID returns the short public identifier printed under QR codes.
func NewProductID() (string, error) {
	return gonanoid.Generate(productIDAlphabet, productIDLength)
}

type ProductServiceInterface interface {
	GetProducts(ctx context.Context, params query.Parameters, storeID uint64) (*ListResult, error)
	GetProduct(ctx context.Context, id uint64) (*entities.Product, error)
	CreateProduct(ctx context.Context, actor Actor, storeID uint64, payload dto.CreateProductDTO, photos []*multipart.FileHeader) (*entities.Product, error)
	UpdateProduct(ctx context.Context, actor Actor, id uint64, payload dto.UpdateProductDTO, photos []*multipart.FileHeader) (*entities.Product, error)
	DeleteProduct(ctx context.Context, actor Actor, id uint64) error
	ExportStoreProducts(ctx context.Context, actor Actor, storeID uint64) (*bytes.Buffer, *entities.Store, error)
}

type ProductService struct {
	productRepo  repositories.ProductRepositoryInterface
	storeRepo    repositories.StoreRepositoryInterface
	storage      filestorage.FileStorageInterface
	qrCodes      QRCodeServiceInterface
	search       SearchCacheInvalidator
	exporter     ExportServiceInterface
	events       EventPublisher
	lister       lister
	maxPhotoSize int64
	minPhotos    int
	logger       *zap.Logger
}

type ProductServiceConfig struct {
	MaxPhotoSize int64
	MinPhotos    int
	MaxLimit     int
}

func NewProductService(
	productRepo repositories.ProductRepositoryInterface,
	storeRepo repositories.StoreRepositoryInterface,
	listingRepo repositories.ListingRepositoryInterface,
	storage filestorage.FileStorageInterface,
	qrCodes QRCodeServiceInterface,
	search SearchCacheInvalidator,
	exporter ExportServiceInterface,
	publisher EventPublisher,
	cfg ProductServiceConfig,
	logger *zap.Logger,
) ProductServiceInterface {
	minPhotos := cfg.MinPhotos
	if minPhotos <= 0 {
		minPhotos = config.UploadContexts[config.UploadProductPhoto].MinCount
	}
	return &ProductService{
		productRepo:  productRepo,
		storeRepo:    storeRepo,
		storage:      storage,
		qrCodes:      qrCodes,
		search:       search,
		exporter:     exporter,
		events:       publisher,
		lister:       newLister("products", repositories.ProductSchema, cfg.MaxLimit, listingRepo),
		maxPhotoSize: cfg.MaxPhotoSize,
		minPhotos:    minPhotos,
		logger:       logger,
	}
}

// GetProducts lists products. A non-zero storeID is forced into the filter
// and cannot be overridden by the client.
func (s *ProductService) GetProducts(ctx context.Context, params query.Parameters, storeID uint64) (*ListResult, error) {
	var forced map[string]any
	if storeID != 0 {
		forced = map[string]any{"store": storeID}
	}
	return s.lister.list(ctx, params, forced)
}

func (s *ProductService) GetProduct(ctx context.Context, id uint64) (*entities.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Product not found with id of %d", id))
	}
	return product, err
}

func (s *ProductService) validatePhotos(photos []*multipart.FileHeader) error {
	if len(photos) < s.minPhotos {
		return apperrors.NewBadRequestError(fmt.Sprintf("At least %d photos must be entered", s.minPhotos))
	}
	return validation.ValidateEach(photos, config.UploadProductPhoto, s.maxPhotoSize)
}

func (s *ProductService) ownedStore(ctx context.Context, actor Actor, storeID uint64, action string) (*entities.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("No store with the id of %d", storeID))
		}
		return nil, err
	}
	if !store.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError(
			fmt.Sprintf("User %d is not authorized to %s store %d", actor.ID, action, store.ID))
	}
	return store, nil
}

// CreateProduct adds a product to a store the caller owns. The product gets a
// fresh short id and a QR code pointing at the public search endpoint.
func (s *ProductService) CreateProduct(ctx context.Context, actor Actor, storeID uint64, payload dto.CreateProductDTO, photos []*multipart.FileHeader) (*entities.Product, error) {
	if _, err := s.ownedStore(ctx, actor, storeID, "add a product to"); err != nil {
		return nil, err
	}
	if err := s.validatePhotos(photos); err != nil {
		return nil, err
	}

	productID, err := NewProductID()
	if err != nil {
		return nil, fmt.Errorf("generate product id: %w", err)
	}

	photoURLs, err := saveUploads(ctx, s.storage, photos, config.UploadProductPhoto)
	if err != nil {
		removeMedia(ctx, s.storage, s.logger, photoURLs...)
		return nil, err
	}
	qrURL, err := s.qrCodes.Create(ctx, productID)
	if err != nil {
		removeMedia(ctx, s.storage, s.logger, photoURLs...)
		return nil, err
	}

	created, err := s.productRepo.Create(ctx, nil, &entities.Product{
		ProductID:      productID,
		Name:           strings.TrimSpace(payload.Name),
		RawMaterials:   payload.RawMaterials,
		Description:    payload.Description,
		ProductStorage: payload.ProductStorage,
		Category:       payload.Category,
		Price:          payload.Price,
		Photos:         photoURLs,
		Video:          payload.Video,
		QRCode:         qrURL,
		StoreID:        storeID,
		UserID:         actor.ID,
	})
	if err != nil {
		removeMedia(ctx, s.storage, s.logger, append(photoURLs, qrURL)...)
		return nil, err
	}

	s.events.Publish(ctx, events.ProductCreated{
		ID: created.ID, ProductID: created.ProductID, StoreID: storeID, UserID: actor.ID,
	})
	return created, nil
}

func (s *ProductService) ownedProduct(ctx context.Context, actor Actor, id uint64, action string) (*entities.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("No product with the id of %d", id))
		}
		return nil, err
	}
	if !product.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError(
			fmt.Sprintf("User %d is not authorized to %s product %d", actor.ID, action, product.ID))
	}
	return product, nil
}

// UpdateProduct replaces the photo set and applies the fields present in
// payload.
func (s *ProductService) UpdateProduct(ctx context.Context, actor Actor, id uint64, payload dto.UpdateProductDTO, photos []*multipart.FileHeader) (*entities.Product, error) {
	product, err := s.ownedProduct(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}
	if err := s.validatePhotos(photos); err != nil {
		return nil, err
	}

	photoURLs, err := saveUploads(ctx, s.storage, photos, config.UploadProductPhoto)
	if err != nil {
		removeMedia(ctx, s.storage, s.logger, photoURLs...)
		return nil, err
	}
	oldPhotos := product.Photos
	product.Photos = photoURLs

	if payload.Name.Valid {
		product.Name = strings.TrimSpace(payload.Name.String)
	}
	if payload.RawMaterials.Valid {
		product.RawMaterials = payload.RawMaterials.String
	}
	if payload.Description.Valid {
		product.Description = payload.Description.String
	}
	if payload.ProductStorage.Valid {
		product.ProductStorage = payload.ProductStorage.String
	}
	if payload.Category.Valid {
		product.Category = payload.Category.String
	}
	if payload.Price.Valid {
		product.Price = payload.Price.Float64
	}
	if payload.Video.Valid {
		product.Video = payload.Video.String
	}
	if payload.IsVerification.Valid {
		product.IsVerification = utils.ToPtr(payload.IsVerification.Bool)
	}

	updated, err := s.productRepo.Update(ctx, nil, product)
	if err != nil {
		removeMedia(ctx, s.storage, s.logger, photoURLs...)
		return nil, err
	}
	removeMedia(ctx, s.storage, s.logger, oldPhotos...)
	s.search.Invalidate(ctx, product.ProductID)
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, actor Actor, id uint64) error {
	product, err := s.ownedProduct(ctx, actor, id, "delete")
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}
	removeMedia(ctx, s.storage, s.logger, productMedia(*product)...)
	s.search.Invalidate(ctx, product.ProductID)
	s.events.Publish(ctx, events.ProductDeleted{
		ID: product.ID, ProductID: product.ProductID, StoreID: product.StoreID, ActorID: actor.ID,
	})
	return nil
}

// ExportStoreProducts renders every product of a store the caller owns as an
// xlsx workbook.
func (s *ProductService) ExportStoreProducts(ctx context.Context, actor Actor, storeID uint64) (*bytes.Buffer, *entities.Store, error) {
	store, err := s.ownedStore(ctx, actor, storeID, "export")
	if err != nil {
		return nil, nil, err
	}
	products, err := s.productRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, nil, err
	}
	buf, err := s.exporter.ProductsWorkbook(store, products)
	if err != nil {
		return nil, nil, err
	}
	return buf, store, nil
}
