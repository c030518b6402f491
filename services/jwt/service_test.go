package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/jwtauth/testutils"
)

func TestService_AccessExpirySeconds(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.JWT.AccessExpiry = 15 * time.Minute

	assert.Equal(t, 900, NewService(cfg, nil, nil).AccessExpirySeconds())
}

func TestService_GenerateToken(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil, nil)

	tokenString, claims, err := service.GenerateToken(123)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(cfg.JWT.SecretKey), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	parsed := token.Claims.(*Claims)
	assert.Equal(t, uint(123), parsed.UserID)
	require.NotEmpty(t, claims.ID)
	assert.Equal(t, claims.ID, parsed.ID)

	raw := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, raw, func(token *jwt.Token) (any, error) {
		return []byte(cfg.JWT.SecretKey), nil
	})
	require.NoError(t, err)
	assert.Equal(t, claims.ID, raw["jti"])
	assert.Equal(t, "123", parsed.Subject)
	assert.Equal(t, cfg.JWT.Issuer, parsed.Issuer)
}

func TestService_ValidateToken(t *testing.T) {
	cfg := testutils.GetTestConfig()
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		service := NewService(cfg, nil, nil)
		tokenString, _, err := service.GenerateToken(42)
		require.NoError(t, err)

		claims, err := service.ValidateToken(ctx, tokenString)

		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
	})

	t.Run("expired token", func(t *testing.T) {
		service := NewService(cfg, nil, nil)
		issued := time.Now().Add(-time.Hour)
		service.now = func() time.Time { return issued }
		tokenString, _, err := service.GenerateToken(42)
		require.NoError(t, err)

		service.now = time.Now
		_, err = service.ValidateToken(ctx, tokenString)

		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := NewService(cfg, nil, nil).ValidateToken(ctx, "not.a.jwt")

		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := testutils.GetTestConfig()
		other.JWT.SecretKey = "Zx8Vb2Nm4Lk6Jh8Gf0Ds2Ap4Qw6Er8Ty0Ui2Op4As6Df"
		tokenString, _, err := NewService(other, nil, nil).GenerateToken(1)
		require.NoError(t, err)

		_, err = NewService(cfg, nil, nil).ValidateToken(ctx, tokenString)

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("none algorithm rejected", func(t *testing.T) {
		claims := Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.JWT.Issuer}}
		tokenString, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = NewService(cfg, nil, nil).ValidateToken(ctx, tokenString)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("HS512 rejected", func(t *testing.T) {
		claims := Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.JWT.Issuer}}
		tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.JWT.SecretKey))
		require.NoError(t, err)

		_, err = NewService(cfg, nil, nil).ValidateToken(ctx, tokenString)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("revoked token", func(t *testing.T) {
		revocation := &testutils.MockRevocationService{}
		service := NewService(cfg, nil, revocation)
		tokenString, claims, err := service.GenerateToken(42)
		require.NoError(t, err)
		revocation.On("IsTokenRevoked", mock.Anything, claims.ID).Return(true, nil)

		_, err = service.ValidateToken(ctx, tokenString)

		assert.ErrorIs(t, err, ErrTokenRevoked)
		revocation.AssertExpectations(t)
	})

	t.Run("revocation lookup failure", func(t *testing.T) {
		revocation := &testutils.MockRevocationService{}
		revocation.On("IsTokenRevoked", mock.Anything, mock.Anything).Return(false, errors.New("db down"))
		service := NewService(cfg, nil, revocation)
		tokenString, _, err := service.GenerateToken(42)
		require.NoError(t, err)

		_, err = service.ValidateToken(ctx, tokenString)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrTokenRevoked)
	})
}
