package jwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken     = errors.New("invalid JWT token")
	ErrExpiredToken     = errors.New("JWT token has expired")
	ErrMalformedToken   = errors.New("malformed JWT token")
	ErrInvalidSignature = errors.New("invalid JWT token signature")
	ErrTokenRevoked     = errors.New("JWT token has been revoked")
)

// Claims carries the token id in RegisteredClaims.ID (the "jti" claim).
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	config     *config.Config
	logger     *logging.Service
	revocation RevocationChecker
	now        func() time.Time
}

func NewService(cfg *config.Config, logger *logging.Service, revocation RevocationChecker) *Service {
	return &Service{
		config:     cfg,
		logger:     logger.Named("jwt"),
		revocation: revocation,
		now:        time.Now,
	}
}

func (s *Service) AccessExpirySeconds() int {
	return int(s.config.JWT.AccessExpiry.Seconds())
}

// GenerateToken signs an access token for userID and returns it with its claims.
func (s *Service) GenerateToken(userID uint) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.JWT.Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Audience:  []string{s.config.JWT.Issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.AccessExpiry)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWT.SecretKey))
	if err != nil {
		s.logger.Error("failed to sign JWT token", zap.Error(err))
		return "", nil, fmt.Errorf("failed to generate JWT token: %w", err)
	}
	return token, claims, nil
}

func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() == "none" {
			return nil, errors.New("'none' algorithm is not allowed")
		}
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok || token.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected algorithm: expected HS256, got %s", token.Method.Alg())
		}
		return []byte(s.config.JWT.SecretKey), nil
	},
		jwt.WithIssuer(s.config.JWT.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Debug("JWT token validation failed", zap.Error(err))

		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if s.revocation != nil {
		revoked, err := s.revocation.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}
