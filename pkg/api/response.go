package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/query"
)

const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
	pgFKViolation     = "23503"
)

type Response[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// PaginationMeta omits next/prev when there is no such page.
type PaginationMeta struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

type ListResponse[T any] struct {
	Success    bool           `json:"success"`
	Count      int            `json:"count"`
	Pagination PaginationMeta `json:"pagination"`
	Data       []T            `json:"data"`
}

func NewPaginationMeta(p query.Pagination) PaginationMeta {
	var meta PaginationMeta
	if p.HasNext {
		meta.Next = &PageRef{Page: p.NextPage, Limit: p.PageLimit}
	}
	if p.HasPrev {
		meta.Prev = &PageRef{Page: p.PrevPage, Limit: p.PageLimit}
	}
	return meta
}

func SuccessOne[T any](c echo.Context, code int, data T) error {
	return c.JSON(code, Response[T]{Success: true, Data: data})
}

// SuccessEmpty renders {"success":true,"data":{}}.
func SuccessEmpty(c echo.Context) error {
	return c.JSON(http.StatusOK, Response[struct{}]{Success: true, Data: struct{}{}})
}

func SuccessList[T any](c echo.Context, list []T, p query.Pagination) error {
	if list == nil {
		list = make([]T, 0)
	}
	return c.JSON(http.StatusOK, ListResponse[T]{
		Success:    true,
		Count:      len(list),
		Pagination: NewPaginationMeta(p),
		Data:       list,
	})
}

func SuccessToken(c echo.Context, token string) error {
	return c.JSON(http.StatusOK, TokenResponse{Success: true, Token: token})
}

// ErrorResponse renders err as {"success":false,"message":...}. Server errors
// are logged with the request logger when one was injected.
func ErrorResponse(c echo.Context, err error) error {
	code, msg := Classify(err)
	if code >= http.StatusInternalServerError {
		requestLogger(c).Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err),
		)
	}
	return c.JSON(code, ErrorBody{Success: false, Message: msg})
}

// Classify resolves the status code and client message for err.
func Classify(err error) (int, string) {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErr.Message
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, validationMessage(verrs)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return http.StatusBadRequest, apperrors.ErrDuplicate.Error()
		case pgInvalidText:
			return http.StatusNotFound, apperrors.ErrNotFound.Error()
		case pgFKViolation:
			return http.StatusBadRequest, apperrors.ErrBadRequest.Error()
		}
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if s, ok := echoErr.Message.(string); ok {
			return echoErr.Code, s
		}
		return echoErr.Code, http.StatusText(echoErr.Code)
	}

	code := apperrors.StatusFor(err)
	if code == http.StatusInternalServerError {
		return code, apperrors.ErrInternal.Error()
	}
	return code, sentinelMessage(err)
}

var sentinels = []error{
	apperrors.ErrNotFound,
	apperrors.ErrUserNotFound,
	apperrors.ErrDuplicate,
	apperrors.ErrInvalidResetToken,
	apperrors.ErrBadRequest,
	apperrors.ErrInvalidCredentials,
	apperrors.ErrEmptyAuthHeader,
	apperrors.ErrInvalidAuthHeader,
	apperrors.ErrTokenExpired,
	apperrors.ErrTokenNotYetValid,
	apperrors.ErrInvalidSigningMethod,
	apperrors.ErrInvalidToken,
	apperrors.ErrUserIDNotFoundInContext,
	apperrors.ErrUnauthorized,
	apperrors.ErrForbidden,
	apperrors.ErrTooManyAttempts,
}

// sentinelMessage strips wrapping context so clients only see the
// sentinel's own text.
func sentinelMessage(err error) string {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return err.Error()
}

func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, ",")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " must be entered"
	case "email":
		return "Please enter a valid email"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " cannot be more than " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "role":
		return field + " must be user or admin"
	case "province":
		return field + " is not a known province"
	case "niuniq_phone":
		return field + " is not a valid phone number"
	case "eqfield":
		return field + " must be equal to " + fe.Param()
	default:
		return field + " is invalid"
	}
}

func requestLogger(c echo.Context) *zap.Logger {
	if l, ok := c.Get(LoggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// LoggerKey is the echo.Context key the logger middleware stores under.
const LoggerKey = "logger"
