package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"niuniq/internal/dto"
	"niuniq/internal/entities"
	"niuniq/internal/services"
	"niuniq/pkg/api"
	"niuniq/pkg/middleware"
	"niuniq/pkg/service"
)

const logoutCookieTTL = 10 * time.Second

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	cookieTTL   time.Duration
	secure      bool
	logger      *zap.Logger
}

// NewAuthController builds the auth endpoints. secure marks the token cookie
// Secure, which production deployments require.
func NewAuthController(
	authService services.AuthServiceInterface,
	jwtSvc service.JWTService,
	cookieTTL time.Duration,
	secure bool,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService: authService,
		jwtSvc:      jwtSvc,
		cookieTTL:   cookieTTL,
		secure:      secure,
		logger:      logger,
	}
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var payload dto.RegisterDTO
	if err := bindAndValidate(c, &payload); err != nil {
		ctrl.logger.Debug("Register: invalid payload", zap.Error(err))
		return api.ErrorResponse(c, err)
	}

	user, err := ctrl.authService.Register(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Register: failed", zap.String("email", payload.Email), zap.Error(err))
		return api.ErrorResponse(c, err)
	}
	return ctrl.sendToken(c, user)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}

	user, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Info("Login: rejected", zap.String("email", payload.Email), zap.Error(err))
		return api.ErrorResponse(c, err)
	}
	return ctrl.sendToken(c, user)
}

// Logout overwrites the token cookie with "none" for a few seconds.
func (ctrl *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "none",
		Path:     "/",
		Expires:  time.Now().Add(logoutCookieTTL),
		HttpOnly: true,
		Secure:   ctrl.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return api.SuccessEmpty(c)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	user, err := ctrl.authService.Me(c.Request().Context(), actor.ID)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, user)
}

func (ctrl *AuthController) UpdateDetails(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	var payload dto.UpdateDetailsDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}

	user, err := ctrl.authService.UpdateDetails(c.Request().Context(), actor.ID, payload)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, user)
}

func (ctrl *AuthController) UpdatePassword(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	var payload dto.UpdatePasswordDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}

	user, err := ctrl.authService.UpdatePassword(c.Request().Context(), actor.ID, payload)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return ctrl.sendToken(c, user)
}

func (ctrl *AuthController) ForgotPassword(c echo.Context) error {
	var payload dto.ForgotPasswordDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}

	baseURL := c.Scheme() + "://" + c.Request().Host
	if err := ctrl.authService.ForgotPassword(c.Request().Context(), payload, baseURL); err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "Email sent")
}

func (ctrl *AuthController) ResetPassword(c echo.Context) error {
	var payload dto.ResetPasswordDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}

	user, err := ctrl.authService.ResetPassword(c.Request().Context(), c.Param("resettoken"), payload)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return ctrl.sendToken(c, user)
}

// sendToken signs a token for user and returns it both in the body and in
// the token cookie.
func (ctrl *AuthController) sendToken(c echo.Context, user *entities.User) error {
	token, err := ctrl.jwtSvc.GenerateToken(user.ID)
	if err != nil {
		ctrl.logger.Error("failed to sign token", zap.Uint64("userID", user.ID), zap.Error(err))
		return api.ErrorResponse(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ctrl.cookieTTL),
		HttpOnly: true,
		Secure:   ctrl.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return api.SuccessToken(c, token)
}
