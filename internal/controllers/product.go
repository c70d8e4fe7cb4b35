package controllers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"niuniq/internal/dto"
	"niuniq/internal/services"
	"niuniq/pkg/api"
)

const (
	photosField = "images"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var unsafeFileChars = regexp.MustCompile(`[^0-9A-Za-z_-]+`)

type ProductController struct {
	productService services.ProductServiceInterface
	logger         *zap.Logger
}

func NewProductController(productService services.ProductServiceInterface, logger *zap.Logger) *ProductController {
	return &ProductController{productService: productService, logger: logger}
}

// GetProducts serves both /products and /stores/:storeId/products. The store
// route always filters by its store.
func (ctrl *ProductController) GetProducts(c echo.Context) error {
	var storeID uint64
	if c.Param("storeId") != "" {
		id, err := pathID(c, "storeId")
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		storeID = id
	}

	res, err := ctrl.productService.GetProducts(c.Request().Context(), listParams(c), storeID)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessList(c, res.Records, res.Pagination)
}

func (ctrl *ProductController) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	product, err := ctrl.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, product)
}

func (ctrl *ProductController) CreateProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	storeID, err := pathID(c, "storeId")
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	var payload dto.CreateProductDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}

	product, err := ctrl.productService.CreateProduct(c.Request().Context(), actor, storeID, payload, formFiles(c, photosField))
	if err != nil {
		ctrl.logger.Info("CreateProduct: failed", zap.Uint64("storeID", storeID), zap.Error(err))
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusCreated, product)
}

func (ctrl *ProductController) UpdateProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	var payload dto.UpdateProductDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return api.ErrorResponse(c, err)
	}

	product, err := ctrl.productService.UpdateProduct(c.Request().Context(), actor, id, payload, formFiles(c, photosField))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, product)
}

func (ctrl *ProductController) DeleteProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := ctrl.productService.DeleteProduct(c.Request().Context(), actor, id); err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessEmpty(c)
}

// ExportProducts streams the store's products as an xlsx attachment.
func (ctrl *ProductController) ExportProducts(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	storeID, err := pathID(c, "storeId")
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	buf, store, err := ctrl.productService.ExportStoreProducts(c.Request().Context(), actor, storeID)
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	name := strings.Trim(unsafeFileChars.ReplaceAllString(store.Name, "_"), "_")
	if name == "" {
		name = fmt.Sprintf("store_%d", store.ID)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s_products.xlsx"`, name))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
