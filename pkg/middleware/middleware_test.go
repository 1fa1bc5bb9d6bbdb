package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Astemirdum/library-borrow/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestJwtAuthentication(t *testing.T) {
	tm := auth.NewTokenManager(auth.Config{Secret: "k", TokenTTL: time.Hour, Issuer: "test"})
	userToken, _, err := tm.Issue(auth.Identity{UserID: 5, Role: auth.RoleUser})
	require.NoError(t, err)
	adminToken, _, err := tm.Issue(auth.Identity{UserID: 1, Role: auth.RoleAdmin})
	require.NoError(t, err)

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, err := auth.GetIdentity(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, id.UserID)
	}, JwtAuthentication(tm))
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, JwtAuthentication(tm), RequireAdmin)

	tests := []struct {
		name   string
		path   string
		header string
		code   int
	}{
		{name: "no header", path: "/me", code: http.StatusUnauthorized},
		{name: "not bearer", path: "/me", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "garbage token", path: "/me", header: "Bearer abc", code: http.StatusUnauthorized},
		{name: "user ok", path: "/me", header: "Bearer " + userToken, code: http.StatusOK},
		{name: "user on admin route", path: "/admin", header: "Bearer " + userToken, code: http.StatusForbidden},
		{name: "admin ok", path: "/admin", header: "Bearer " + adminToken, code: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(AuthorizationHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, tt.code, rec.Code)
		})
	}
}
