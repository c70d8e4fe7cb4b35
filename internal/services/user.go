package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"niuniq/internal/dto"
	"niuniq/internal/entities"
	"niuniq/internal/repositories"
	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/filestorage"
	"niuniq/pkg/query"
	"niuniq/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, params query.Parameters) (*ListResult, error)
	GetUser(ctx context.Context, id uint64) (*entities.User, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	userRepo    repositories.UserRepositoryInterface
	storeRepo   repositories.StoreRepositoryInterface
	productRepo repositories.ProductRepositoryInterface
	storage     filestorage.FileStorageInterface
	search      SearchCacheInvalidator
	lister      lister
	logger      *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	storeRepo repositories.StoreRepositoryInterface,
	productRepo repositories.ProductRepositoryInterface,
	listingRepo repositories.ListingRepositoryInterface,
	storage filestorage.FileStorageInterface,
	search SearchCacheInvalidator,
	maxLimit int,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo:    userRepo,
		storeRepo:   storeRepo,
		productRepo: productRepo,
		storage:     storage,
		search:      search,
		lister:      newLister("users", repositories.UserSchema, maxLimit, listingRepo),
		logger:      logger,
	}
}

func (s *UserService) GetUsers(ctx context.Context, params query.Parameters) (*ListResult, error) {
	return s.lister.list(ctx, params, nil)
}

func (s *UserService) GetUser(ctx context.Context, id uint64) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("User not found with id of %d", id))
	}
	return user, err
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}
	role := payload.Role
	if role == "" {
		role = entities.RoleUser
	}
	return s.userRepo.Create(ctx, &entities.User{
		Email:     strings.ToLower(strings.TrimSpace(payload.Email)),
		NoTelepon: normalizePhone(payload.NoTelepon),
		Role:      role,
		Password:  hash,
	})
}

// UpdateUser applies the fields present in payload. A storeName renames the
// user's store and fails with 404 when the user has none.
func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.StoreName.Valid {
		store, err := s.storeRepo.FindByUser(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewNotFoundError(fmt.Sprintf("User with id %d not have market", id))
			}
			return nil, err
		}
		if err := s.storeRepo.UpdateName(ctx, store.ID, strings.TrimSpace(payload.StoreName.String)); err != nil {
			return nil, err
		}
	}

	if payload.Email.Valid {
		user.Email = strings.ToLower(strings.TrimSpace(payload.Email.String))
	}
	if payload.NoTelepon.Valid {
		user.NoTelepon = normalizePhone(payload.NoTelepon.String)
	}
	if payload.Role.Valid {
		user.Role = payload.Role.String
	}
	if payload.HasCreatedStore.Valid {
		user.HasCreatedStore = payload.HasCreatedStore.Bool
	}
	if payload.Password.Valid {
		hash, err := utils.HashPassword(payload.Password.String)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	return s.userRepo.Update(ctx, user)
}

// DeleteUser removes the user with their stores and products, then the media
// those rows referenced.
func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	stores, err := s.storeRepo.ListByUser(ctx, id)
	if err != nil {
		return err
	}
	products, err := s.productRepo.ListByUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	var media []string
	productIDs := make([]string, 0, len(products))
	for _, p := range products {
		media = append(media, productMedia(p)...)
		productIDs = append(productIDs, p.ProductID)
	}
	for _, st := range stores {
		media = append(media, st.Logo, st.Photo)
	}
	removeMedia(ctx, s.storage, s.logger, media...)
	s.search.Invalidate(ctx, productIDs...)

	s.logger.Info("user deleted", zap.Uint64("userID", id), zap.Int("stores", len(stores)), zap.Int("products", len(products)))
	return nil
}

func productMedia(p entities.Product) []string {
	media := append([]string{}, p.Photos...)
	return append(media, p.QRCode)
}
