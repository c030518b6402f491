package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/jwtauth/services/jwt"
	"github.com/tech-arch1tect/jwtauth/testutils"
)

func setupTestJWTService(revocation jwt.RevocationChecker) *jwt.Service {
	return jwt.NewService(testutils.GetTestConfig(), nil, revocation)
}

func serve(t *testing.T, mw echo.MiddlewareFunc, authorization string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "success"})
	})(c)
	return c, rec, err
}

func requireHTTPError(t *testing.T, err error, code int, message string) {
	t.Helper()

	require.Error(t, err)
	httpError, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, code, httpError.Code)
	assert.Contains(t, httpError.Message, message)
}

func TestRequireJWT(t *testing.T) {
	jwtService := setupTestJWTService(nil)
	middleware := RequireJWT(jwtService)

	t.Run("missing authorization header", func(t *testing.T) {
		_, _, err := serve(t, middleware, "")
		requireHTTPError(t, err, http.StatusUnauthorized, "Authorization header required")
	})

	t.Run("invalid authorization header format", func(t *testing.T) {
		_, _, err := serve(t, middleware, "Invalid token")
		requireHTTPError(t, err, http.StatusUnauthorized, "Invalid authorization header format")
	})

	t.Run("empty bearer token", func(t *testing.T) {
		_, _, err := serve(t, middleware, "Bearer ")
		requireHTTPError(t, err, http.StatusUnauthorized, "JWT token required")
	})

	t.Run("invalid JWT token", func(t *testing.T) {
		_, _, err := serve(t, middleware, "Bearer invalid.jwt.token")
		requireHTTPError(t, err, http.StatusUnauthorized, "Invalid JWT token")
	})

	t.Run("valid JWT token", func(t *testing.T) {
		userID := uint(123)
		tokenString, _, err := jwtService.GenerateToken(userID)
		require.NoError(t, err)

		c, rec, err := serve(t, middleware, "Bearer "+tokenString)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, GetUserID(c))
		claims := GetClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, userID, claims.UserID)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("expired JWT token", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		cfg.JWT.AccessExpiry = time.Nanosecond
		shortLived := jwt.NewService(cfg, nil, nil)
		tokenString, _, err := shortLived.GenerateToken(123)
		require.NoError(t, err)

		_, _, err = serve(t, middleware, "Bearer "+tokenString)
		requireHTTPError(t, err, http.StatusUnauthorized, "expired")
	})
}

type revokeAll struct{}

func (revokeAll) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return true, nil
}

func TestRequireJWT_RevokedToken(t *testing.T) {
	jwtService := setupTestJWTService(revokeAll{})
	tokenString, _, err := jwtService.GenerateToken(7)
	require.NoError(t, err)

	_, _, err = serve(t, RequireJWT(jwtService), "Bearer "+tokenString)

	requireHTTPError(t, err, http.StatusUnauthorized, "revoked")
}

func TestGetUserID_NotSet(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Zero(t, GetUserID(c))
	assert.Nil(t, GetClaims(c))
}
