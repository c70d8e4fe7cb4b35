package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"niuniq/internal/dto"
	"niuniq/internal/services"
	"niuniq/pkg/api"
)

type StoreController struct {
	storeService services.StoreServiceInterface
	logger       *zap.Logger
}

func NewStoreController(storeService services.StoreServiceInterface, logger *zap.Logger) *StoreController {
	return &StoreController{storeService: storeService, logger: logger}
}

func storeMedia(c echo.Context) services.StoreMedia {
	return services.StoreMedia{Logo: formFile(c, "logo"), Photo: formFile(c, "photo")}
}

func (ctrl *StoreController) GetStores(c echo.Context) error {
	res, err := ctrl.storeService.GetStores(c.Request().Context(), listParams(c))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessList(c, res.Records, res.Pagination)
}

func (ctrl *StoreController) GetStore(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	store, err := ctrl.storeService.GetStore(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, store)
}

// CreateStore expects a multipart form with the store fields plus logo and
// photo files.
func (ctrl *StoreController) CreateStore(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	var payload dto.CreateStoreDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}

	store, err := ctrl.storeService.CreateStore(c.Request().Context(), actor, payload, storeMedia(c))
	if err != nil {
		ctrl.logger.Info("CreateStore: failed", zap.Uint64("userID", actor.ID), zap.Error(err))
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusCreated, store)
}

func (ctrl *StoreController) UpdateStore(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	var payload dto.UpdateStoreDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}

	store, err := ctrl.storeService.UpdateStore(c.Request().Context(), actor, id, payload, storeMedia(c))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, store)
}

func (ctrl *StoreController) DeleteStore(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := ctrl.storeService.DeleteStore(c.Request().Context(), actor, id); err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessEmpty(c)
}
