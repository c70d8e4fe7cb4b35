package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"niuniq/internal/dto"
	"niuniq/internal/services"
	"niuniq/pkg/api"
)

type SearchController struct {
	searchService services.SearchServiceInterface
	logger        *zap.Logger
}

func NewSearchController(searchService services.SearchServiceInterface, logger *zap.Logger) *SearchController {
	return &SearchController{searchService: searchService, logger: logger}
}

// SearchProduct looks a product up by the id printed under its QR code.
func (ctrl *SearchController) SearchProduct(c echo.Context) error {
	var params dto.SearchProductDTO
	if err := c.Bind(&params); err != nil {
		return api.ErrorResponse(c, err)
	}

	product, err := ctrl.searchService.SearchByProductID(c.Request().Context(), params.Key())
	if err != nil {
		ctrl.logger.Debug("SearchProduct: miss", zap.String("productId", params.Key()), zap.Error(err))
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, product)
}
