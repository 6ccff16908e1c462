package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopapi/internal/domain/model"
	"shopapi/internal/middleware"
	"shopapi/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func mint(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  "11111111-1111-4111-8111-111111111111",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func newEcho() *echo.Echo {
	e := echo.New()
	g := e.Group("/admin", middleware.AdminOnly(secret)...)
	g.GET("/ping", func(c echo.Context) error {
		id, _ := middleware.UserID(c)
		return c.String(http.StatusOK, id)
	})
	e.GET("/me", func(c echo.Context) error {
		id, _ := middleware.UserID(c)
		return c.String(http.StatusOK, id)
	}, middleware.AuthJWT(secret))
	return e
}

func do(e *echo.Echo, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWT(t *testing.T) {
	e := newEcho()

	cases := []struct {
		name  string
		authz string
		want  int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + mint(t, jwt.SigningMethodHS256, []byte("other"), validClaims("USER")), http.StatusUnauthorized},
		{"wrong alg", "Bearer " + mint(t, jwt.SigningMethodHS512, []byte(secret), validClaims("USER")), http.StatusUnauthorized},
		{"expired", "Bearer " + mint(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
			"sub": "u1", "role": "USER", "exp": time.Now().Add(-time.Minute).Unix(),
		}), http.StatusUnauthorized},
		{"no role", "Bearer " + mint(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u1"}), http.StatusUnauthorized},
		{"numeric sub", "Bearer " + mint(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": 12, "role": "USER"}), http.StatusUnauthorized},
		{"ok", "bearer " + mint(t, jwt.SigningMethodHS256, []byte(secret), validClaims("USER")), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, "/me", tc.authz)
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"success":false,"message":"unauthorized","data":null}`, rec.Body.String())
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	e := newEcho()

	rec := do(e, "/admin/ping", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, "/admin/ping", "Bearer "+mint(t, jwt.SigningMethodHS256, []byte(secret), validClaims("USER")))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, "/admin/ping", "Bearer "+mint(t, jwt.SigningMethodHS256, []byte(secret), validClaims("ADMIN")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "11111111-1111-4111-8111-111111111111", rec.Body.String())
}

func TestAdminOnly_DisabledWithoutSecret(t *testing.T) {
	assert.Empty(t, middleware.AdminOnly(""))
}

func TestAuthenticated(t *testing.T) {
	assert.Empty(t, middleware.Authenticated(""))
	assert.Len(t, middleware.Authenticated(secret), 1)
}

func TestAuthJWT_AcceptsIssuedToken(t *testing.T) {
	tok, _, err := usecase.NewJWTIssuer(secret, time.Hour).Issue("u-1", model.RoleAdmin, time.Now())
	require.NoError(t, err)

	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		id, _ := middleware.UserID(c)
		return c.String(http.StatusOK, id+"/"+middleware.UserRole(c))
	}, middleware.AuthJWT(secret))

	rec := do(e, "/whoami", "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1/ADMIN", rec.Body.String())

	expired, _, err := usecase.NewJWTIssuer(secret, time.Minute).Issue("u-1", model.RoleUser, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(e, "/whoami", "Bearer "+expired).Code)
}
