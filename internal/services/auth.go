package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"niuniq/internal/dto"
	"niuniq/internal/entities"
	"niuniq/internal/repositories"
	"niuniq/pkg/config"
	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/utils"
)

const (
	loginAttemptsKey = "login_attempts:%s"
	resetTokenKey    = "reset_token:%s"
	resetPasswordURL = "/api/web/niuniq/auth/resetpassword/"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterDTO) (*entities.User, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error)
	Me(ctx context.Context, userID uint64) (*entities.User, error)
	UpdateDetails(ctx context.Context, userID uint64, payload dto.UpdateDetailsDTO) (*entities.User, error)
	UpdatePassword(ctx context.Context, userID uint64, payload dto.UpdatePasswordDTO) (*entities.User, error)
	ForgotPassword(ctx context.Context, payload dto.ForgotPasswordDTO, baseURL string) error
	ResetPassword(ctx context.Context, token string, payload dto.ResetPasswordDTO) (*entities.User, error)
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	notifier  NotificationServiceInterface
	logger    *zap.Logger
	cfg       config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	notifier NotificationServiceInterface,
	logger *zap.Logger,
	cfg config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		notifier:  notifier,
		logger:    logger,
		cfg:       cfg,
	}
}

// normalizePhone stores numbers in the local 0-prefixed form when they can be
// read as Indonesian numbers.
func normalizePhone(phone string) string {
	if normalized := utils.NormalizeIndonesianPhone(phone); normalized != "" {
		return normalized
	}
	return strings.TrimSpace(phone)
}

// Register creates a plain user account. Admin accounts are created by admins
// through the users endpoints.
func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*entities.User, error) {
	if payload.Role == entities.RoleAdmin {
		return nil, apperrors.NewForbiddenError("Admin accounts can only be created by an admin")
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.Create(ctx, &entities.User{
		Email:     strings.ToLower(strings.TrimSpace(payload.Email)),
		NoTelepon: normalizePhone(payload.NoTelepon),
		Role:      entities.RoleUser,
		Password:  hash,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.Uint64("userID", user.ID))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	logger := s.logger.With(zap.String("email", email))
	attemptsKey := fmt.Sprintf(loginAttemptsKey, email)

	if s.cfg.MaxLoginAttempts > 0 {
		attemptsStr, err := s.cacheRepo.Get(ctx, attemptsKey)
		if err != nil && !errors.Is(err, repositories.ErrCacheMiss) {
			logger.Warn("login attempts lookup failed", zap.Error(err))
		}
		if attempts, _ := strconv.Atoi(attemptsStr); attempts >= s.cfg.MaxLoginAttempts {
			logger.Warn("login locked out")
			return nil, apperrors.NewHttpError(http.StatusTooManyRequests,
				apperrors.ErrTooManyAttempts.Error(), apperrors.ErrTooManyAttempts, nil)
		}
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.recordFailedLogin(ctx, logger, attemptsKey)
			return nil, apperrors.NewUnauthorizedError(apperrors.ErrInvalidCredentials.Error())
		}
		return nil, err
	}
	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.recordFailedLogin(ctx, logger, attemptsKey)
		return nil, apperrors.NewUnauthorizedError(apperrors.ErrInvalidCredentials.Error())
	}

	if err := s.cacheRepo.Del(ctx, attemptsKey); err != nil {
		logger.Warn("failed to reset login attempts", zap.Error(err))
	}
	return user, nil
}

func (s *AuthService) recordFailedLogin(ctx context.Context, logger *zap.Logger, key string) {
	if s.cfg.MaxLoginAttempts <= 0 {
		return
	}
	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		logger.Warn("failed to count login attempt", zap.Error(err))
		return
	}
	if attempts == 1 {
		if _, err := s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration); err != nil {
			logger.Warn("failed to set lockout window", zap.Error(err))
		}
	}
}

func (s *AuthService) Me(ctx context.Context, userID uint64) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateDetails changes the phone number only.
func (s *AuthService) UpdateDetails(ctx context.Context, userID uint64, payload dto.UpdateDetailsDTO) (*entities.User, error) {
	return s.userRepo.UpdatePhone(ctx, userID, normalizePhone(payload.NoTelepon))
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID uint64, payload dto.UpdatePasswordDTO) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := utils.ComparePasswords(user.Password, payload.CurrentPassword); err != nil {
		return nil, apperrors.NewUnauthorizedError("Password is incorrect")
	}
	if payload.NewPassword != payload.ConfirmPassword {
		return nil, apperrors.NewBadRequestError("New password and confirm password is not same")
	}

	hash, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return nil, err
	}
	user.Password = hash
	return user, nil
}

// ForgotPassword stores the sha256 digest of a fresh reset token and mails
// the plain token. The digest is removed again when the mail cannot be sent.
func (s *AuthService) ForgotPassword(ctx context.Context, payload dto.ForgotPasswordDTO, baseURL string) error {
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("There is no user with that email")
		}
		return err
	}

	token, digest, err := utils.NewResetToken()
	if err != nil {
		return err
	}
	key := fmt.Sprintf(resetTokenKey, digest)
	if err := s.cacheRepo.Set(ctx, key, user.ID, s.cfg.ResetTokenTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := strings.TrimRight(baseURL, "/") + resetPasswordURL + token
	if err := s.notifier.SendPasswordResetEmail(ctx, user.Email, resetURL); err != nil {
		s.logger.Error("password reset email failed", zap.Uint64("userID", user.ID), zap.Error(err))
		if delErr := s.cacheRepo.Del(ctx, key); delErr != nil {
			s.logger.Warn("failed to drop reset token", zap.Error(delErr))
		}
		return apperrors.NewInternalError("Email could not be sent", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, payload dto.ResetPasswordDTO) (*entities.User, error) {
	invalid := apperrors.NewHttpError(http.StatusBadRequest, apperrors.ErrInvalidResetToken.Error(), apperrors.ErrInvalidResetToken, nil)
	if token == "" {
		return nil, invalid
	}

	key := fmt.Sprintf(resetTokenKey, utils.HashResetToken(token))
	idStr, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrCacheMiss) {
			return nil, invalid
		}
		return nil, err
	}
	userID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return nil, invalid
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := s.cacheRepo.Del(ctx, key); err != nil {
		s.logger.Warn("failed to drop used reset token", zap.Error(err))
	}
	return s.userRepo.FindByID(ctx, userID)
}
