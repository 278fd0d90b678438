package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func serve(app *App, header string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	e.Use(AppContextMiddleware(app))
	e.POST("/", handler, AuthMiddleware, RequirePermission("ingest.create"))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func ok(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestAuthMiddleware_MasterKey(t *testing.T) {
	app := &App{MasterAPIKey: "secret"}

	rec := serve(app, "Bearer secret", ok)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(app, "Bearer wrong", ok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(app, "", ok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_NoKeyConfigured(t *testing.T) {
	rec := serve(&App{}, "Bearer anything", ok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserFromClaims(t *testing.T) {
	user, err := userFromClaims(jwt.MapClaims{"id": "42", "permissions": []any{"stats.view"}})
	require.NoError(t, err)
	require.Equal(t, int64(42), user.UserID)
	require.Equal(t, "user", user.Role)
	require.Equal(t, []string{"stats.view"}, user.Permissions)

	admin, err := userFromClaims(jwt.MapClaims{"id": float64(7), "role": "admin"})
	require.NoError(t, err)
	require.ElementsMatch(t, allPermissions, admin.Permissions)

	_, err = userFromClaims(jwt.MapClaims{})
	require.Error(t, err)
}

func TestRequirePermission(t *testing.T) {
	e := echo.New()
	handler := RequirePermission("ingest.create")(ok)

	c := &AppContext{Context: e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())}
	rec := c.Response().Writer.(*httptest.ResponseRecorder)
	require.NoError(t, handler(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	c = &AppContext{
		Context: e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec),
		User:    &AppUser{Permissions: []string{"stats.view"}},
	}
	require.NoError(t, handler(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}
