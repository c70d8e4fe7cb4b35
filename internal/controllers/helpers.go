package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"niuniq/internal/services"
	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/query"
	"niuniq/pkg/utils"
)

func actorFrom(c echo.Context) (services.Actor, error) {
	ctx := c.Request().Context()
	id, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return services.Actor{}, apperrors.NewUnauthorizedError(apperrors.ErrUnauthorized.Error())
	}
	return services.Actor{ID: id, Role: utils.GetUserRoleFromCtx(ctx)}, nil
}

// pathID parses a numeric path parameter. Malformed ids answer 404 like an
// id that does not exist.
func pathID(c echo.Context, name string) (uint64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusNotFound,
			fmt.Sprintf("Resource not found with id of %s", raw), apperrors.ErrNotFound, nil)
	}
	return id, nil
}

func listParams(c echo.Context) query.Parameters {
	return query.ParseValues(c.QueryParams())
}

// formFile returns nil when the field is absent.
func formFile(c echo.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

func formFiles(c echo.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

func bindAndValidate(c echo.Context, payload any) error {
	if err := c.Bind(payload); err != nil {
		return apperrors.NewBadRequestError("Invalid request payload")
	}
	return c.Validate(payload)
}
