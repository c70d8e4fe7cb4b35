package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/service"
	"niuniq/pkg/utils"
)

type fakeRoles map[uint64]string

func (f fakeRoles) RoleOf(_ context.Context, userID uint64) (string, error) {
	role, ok := f[userID]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return role, nil
}

type authFixture struct {
	e   *echo.Echo
	jwt service.JWTService
}

func newAuthFixture() *authFixture {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, zap.NewNop())
	mw := NewAuthMiddleware(jwtSvc, fakeRoles{1: "user", 2: "admin"}, zap.NewNop())

	e := echo.New()
	whoami := func(c echo.Context) error {
		id, err := utils.GetUserIDFromCtx(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{"id": id, "role": utils.GetUserRoleFromCtx(c.Request().Context())})
	}
	e.GET("/me", whoami, mw.Protect)
	e.GET("/admin", whoami, mw.Protect, mw.Authorize("admin"))
	return &authFixture{e: e, jwt: jwtSvc}
}

func (f *authFixture) do(t *testing.T, path string, mutate func(*http.Request)) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestProtect_BearerHeader(t *testing.T) {
	f := newAuthFixture()
	token, err := f.jwt.GenerateToken(1)
	require.NoError(t, err)

	rec, body := f.do(t, "/me", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "user", body["role"])
}

func TestProtect_Cookie(t *testing.T) {
	f := newAuthFixture()
	token, err := f.jwt.GenerateToken(2)
	require.NoError(t, err)

	rec, body := f.do(t, "/me", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token}) })

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", body["role"])
}

func TestProtect_Rejections(t *testing.T) {
	f := newAuthFixture()
	unknown, err := f.jwt.GenerateToken(99)
	require.NoError(t, err)

	cases := map[string]func(*http.Request){
		"missing":      nil,
		"malformed":    func(r *http.Request) { r.Header.Set("Authorization", "Token abc") },
		"garbage":      func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") },
		"logout value": func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "none"}) },
		"deleted user": func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+unknown) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			rec, body := f.do(t, "/me", mutate)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestAuthorize(t *testing.T) {
	f := newAuthFixture()
	userToken, _ := f.jwt.GenerateToken(1)
	adminToken, _ := f.jwt.GenerateToken(2)

	rec, _ := f.do(t, "/admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+userToken) })
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, "/admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+adminToken) })
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.Use(RateLimit(2, time.Hour))
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestMetrics_PassesErrorsThrough(t *testing.T) {
	e := echo.New()
	boom := errors.New("boom")
	var got error
	e.GET("/x", func(c echo.Context) error { return boom }, Metrics)
	e.HTTPErrorHandler = func(err error, c echo.Context) { got = err; _ = c.NoContent(http.StatusTeapot) }

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, boom, got)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
