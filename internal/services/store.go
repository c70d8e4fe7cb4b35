package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"niuniq/config"
	"niuniq/internal/dto"
	"niuniq/internal/entities"
	"niuniq/internal/events"
	"niuniq/internal/repositories"
	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/filestorage"
	"niuniq/pkg/query"
	"niuniq/pkg/validation"
)

// Actor is the authenticated caller of an ownership-checked operation.
type Actor struct {
	ID   uint64
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == entities.RoleAdmin
}

// StoreMedia are the two images every store carries.
type StoreMedia struct {
	Logo  *multipart.FileHeader
	Photo *multipart.FileHeader
}

type StoreServiceInterface interface {
	GetStores(ctx context.Context, params query.Parameters) (*ListResult, error)
	GetStore(ctx context.Context, id uint64) (*entities.Store, error)
	CreateStore(ctx context.Context, actor Actor, payload dto.CreateStoreDTO, media StoreMedia) (*entities.Store, error)
	UpdateStore(ctx context.Context, actor Actor, id uint64, payload dto.UpdateStoreDTO, media StoreMedia) (*entities.Store, error)
	DeleteStore(ctx context.Context, actor Actor, id uint64) error
}

type StoreService struct {
	storeRepo    repositories.StoreRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	txManager    repositories.TxManagerInterface
	storage      filestorage.FileStorageInterface
	search       SearchCacheInvalidator
	events       EventPublisher
	lister       lister
	maxPhotoSize int64
	logger       *zap.Logger
}

func NewStoreService(
	storeRepo repositories.StoreRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	listingRepo repositories.ListingRepositoryInterface,
	txManager repositories.TxManagerInterface,
	storage filestorage.FileStorageInterface,
	search SearchCacheInvalidator,
	publisher EventPublisher,
	maxPhotoSize int64,
	maxLimit int,
	logger *zap.Logger,
) StoreServiceInterface {
	return &StoreService{
		storeRepo:    storeRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		storage:      storage,
		search:       search,
		events:       publisher,
		lister:       newLister("stores", repositories.StoreSchema, maxLimit, listingRepo),
		maxPhotoSize: maxPhotoSize,
		logger:       logger,
	}
}

func (s *StoreService) GetStores(ctx context.Context, params query.Parameters) (*ListResult, error) {
	return s.lister.list(ctx, params, nil)
}

func (s *StoreService) GetStore(ctx context.Context, id uint64) (*entities.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Store not found with id of %d", id))
	}
	return store, err
}

func (s *StoreService) validateMedia(media StoreMedia, missingMessage string) error {
	if media.Logo == nil || media.Photo == nil {
		return apperrors.NewBadRequestError(missingMessage)
	}
	if err := validation.ValidateFiles([]*multipart.FileHeader{media.Logo}, config.UploadStoreLogo, s.maxPhotoSize); err != nil {
		return err
	}
	return validation.ValidateFiles([]*multipart.FileHeader{media.Photo}, config.UploadStorePhoto, s.maxPhotoSize)
}

func (s *StoreService) saveMedia(ctx context.Context, media StoreMedia) (logo, photo string, err error) {
	logo, err = saveUpload(ctx, s.storage, media.Logo, config.UploadStoreLogo)
	if err != nil {
		return "", "", err
	}
	photo, err = saveUpload(ctx, s.storage, media.Photo, config.UploadStorePhoto)
	if err != nil {
		removeMedia(ctx, s.storage, s.logger, logo)
		return "", "", err
	}
	return logo, photo, nil
}

// CreateStore registers the caller's store. Users own at most one store;
// admins may create several.
func (s *StoreService) CreateStore(ctx context.Context, actor Actor, payload dto.CreateStoreDTO, media StoreMedia) (*entities.Store, error) {
	if !actor.IsAdmin() {
		count, err := s.storeRepo.CountByUser(ctx, nil, actor.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("The user with ID %d has already create a store", actor.ID))
		}
	}
	if err := s.validateMedia(media, "Logo and photo must be input"); err != nil {
		return nil, err
	}

	logo, photo, err := s.saveMedia(ctx, media)
	if err != nil {
		return nil, err
	}

	var created *entities.Store
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		created, err = s.storeRepo.Create(ctx, tx, &entities.Store{
			Name:           strings.TrimSpace(payload.Name),
			UserID:         actor.ID,
			Logo:           logo,
			Photo:          photo,
			Ecommerces:     payload.Ecommerces,
			EcommercesURL:  payload.EcommercesURL,
			YearProduction: payload.YearProduction,
			Regency:        strings.ToUpper(strings.TrimSpace(payload.Regency)),
			Province:       strings.ToUpper(strings.TrimSpace(payload.Province)),
		})
		if err != nil {
			return err
		}
		return s.userRepo.SetHasCreatedStore(ctx, tx, actor.ID, true)
	})
	if err != nil {
		removeMedia(ctx, s.storage, s.logger, logo, photo)
		return nil, err
	}

	s.events.Publish(ctx, events.StoreCreated{StoreID: created.ID, UserID: actor.ID})
	return created, nil
}

func (s *StoreService) ownedStore(ctx context.Context, actor Actor, id uint64, action string) (*entities.Store, error) {
	store, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if !store.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError(fmt.Sprintf("User %d is not authorized to %s this store", actor.ID, action))
	}
	return store, nil
}

// UpdateStore replaces the store's logo and photo and applies the fields
// present in payload. The previous images are removed after the update.
func (s *StoreService) UpdateStore(ctx context.Context, actor Actor, id uint64, payload dto.UpdateStoreDTO, media StoreMedia) (*entities.Store, error) {
	store, err := s.ownedStore(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}
	if err := s.validateMedia(media, "Photo and logo must be entered"); err != nil {
		return nil, err
	}

	logo, photo, err := s.saveMedia(ctx, media)
	if err != nil {
		return nil, err
	}
	oldLogo, oldPhoto := store.Logo, store.Photo
	store.Logo, store.Photo = logo, photo

	if payload.Name.Valid {
		store.Name = strings.TrimSpace(payload.Name.String)
	}
	if payload.Ecommerces != nil {
		store.Ecommerces = payload.Ecommerces
	}
	if payload.EcommercesURL != nil {
		store.EcommercesURL = payload.EcommercesURL
	}
	if payload.YearProduction.Valid {
		store.YearProduction = payload.YearProduction.Int
	}
	if payload.Regency.Valid {
		store.Regency = strings.ToUpper(strings.TrimSpace(payload.Regency.String))
	}
	if payload.Province.Valid {
		store.Province = strings.ToUpper(strings.TrimSpace(payload.Province.String))
	}

	updated, err := s.storeRepo.Update(ctx, nil, store)
	if err != nil {
		removeMedia(ctx, s.storage, s.logger, logo, photo)
		return nil, err
	}
	removeMedia(ctx, s.storage, s.logger, oldLogo, oldPhoto)

	productIDs := make([]string, 0, len(store.Products))
	for _, p := range store.Products {
		productIDs = append(productIDs, p.ProductID)
	}
	s.search.Invalidate(ctx, productIDs...)
	return updated, nil
}

// DeleteStore removes the store with its products and their media. The
// owner's hasCreatedStore flag is cleared once they own no store.
func (s *StoreService) DeleteStore(ctx context.Context, actor Actor, id uint64) error {
	store, err := s.ownedStore(ctx, actor, id, "delete")
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.storeRepo.Delete(ctx, tx, store.ID); err != nil {
			return err
		}
		remaining, err := s.storeRepo.CountByUser(ctx, tx, store.UserID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return s.userRepo.SetHasCreatedStore(ctx, tx, store.UserID, false)
		}
		return nil
	})
	if err != nil {
		return err
	}

	media := []string{store.Logo, store.Photo}
	productIDs := make([]string, 0, len(store.Products))
	for _, p := range store.Products {
		media = append(media, productMedia(p)...)
		productIDs = append(productIDs, p.ProductID)
	}
	removeMedia(ctx, s.storage, s.logger, media...)
	s.search.Invalidate(ctx, productIDs...)

	s.events.Publish(ctx, events.StoreDeleted{StoreID: store.ID, ActorID: actor.ID, ProductIDs: productIDs})
	return nil
}
