package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"niuniq/pkg/api"
	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/service"
	"niuniq/pkg/utils"
)

// TokenCookie is the cookie login responses set alongside the JSON token.
const TokenCookie = "token"

// RoleResolver returns the current role of a user. Roles are read on every
// request so a demoted or deleted user loses access before the token expires.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID uint64) (string, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	roles      RoleResolver
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, roles RoleResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		roles:      roles,
		logger:     logger,
	}
}

// Protect authenticates the request with a "Bearer <token>" header, falling
// back to the token cookie, and stores the user id and role in the request
// context.
func (m *AuthMiddleware) Protect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := extractToken(c)
		if err != nil {
			m.logger.Debug("auth: no usable token", zap.Error(err))
			return api.ErrorResponse(c, apperrors.NewUnauthorizedError(apperrors.ErrUnauthorized.Error()))
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.logger.Warn("auth: token validation failed", zap.Error(err))
			return api.ErrorResponse(c, apperrors.NewUnauthorizedError(apperrors.ErrUnauthorized.Error()))
		}

		ctx := c.Request().Context()
		role, err := m.roles.RoleOf(ctx, claims.UserID)
		if err != nil {
			m.logger.Warn("auth: token user not resolvable", zap.Uint64("userID", claims.UserID), zap.Error(err))
			return api.ErrorResponse(c, apperrors.NewUnauthorizedError(apperrors.ErrUnauthorized.Error()))
		}

		c.SetRequest(c.Request().WithContext(utils.WithUser(ctx, claims.UserID, role)))
		return next(c)
	}
}

// Authorize must run after Protect.
func (m *AuthMiddleware) Authorize(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := utils.GetUserRoleFromCtx(c.Request().Context())
			if !slices.Contains(roles, role) {
				m.logger.Info("auth: role rejected", zap.String("role", role), zap.Strings("allowed", roles))
				return api.ErrorResponse(c, apperrors.NewForbiddenError(
					"User role "+role+" is not authorized to access this route"))
			}
			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", apperrors.ErrInvalidAuthHeader
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" && cookie.Value != "none" {
		return cookie.Value, nil
	}
	return "", apperrors.ErrEmptyAuthHeader
}
