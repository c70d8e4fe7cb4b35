package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"niuniq/internal/dto"
	"niuniq/internal/services"
	"niuniq/pkg/api"
)

type UserController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewUserController(userService services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

func (ctrl *UserController) GetUsers(c echo.Context) error {
	res, err := ctrl.userService.GetUsers(c.Request().Context(), listParams(c))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessList(c, res.Records, res.Pagination)
}

func (ctrl *UserController) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	user, err := ctrl.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, user)
}

func (ctrl *UserController) CreateUser(c echo.Context) error {
	var payload dto.CreateUserDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}
	user, err := ctrl.userService.CreateUser(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("CreateUser: failed", zap.String("email", payload.Email), zap.Error(err))
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusCreated, user)
}

func (ctrl *UserController) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	var payload dto.UpdateUserDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}
	user, err := ctrl.userService.UpdateUser(c.Request().Context(), id, payload)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, user)
}

func (ctrl *UserController) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := ctrl.userService.DeleteUser(c.Request().Context(), id); err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessEmpty(c)
}
