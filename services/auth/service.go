package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/jwt"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/services/password"
	"github.com/tech-arch1tect/jwtauth/services/refreshtoken"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/services/revocation"
	"github.com/tech-arch1tect/jwtauth/services/users"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = password.ErrInvalidCredentials
	ErrRefreshInvalid     = errors.New("invalid refresh token")
)

type ClientInfo = resetcode.ClientInfo

type Session struct {
	User             *users.User
	AccessToken      string
	ExpiresIn        int
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type RegisterInput struct {
	Name     string
	LastName string
	Phone    string
	Email    string
	Password string
}

type Service struct {
	config     *config.Config
	users      *users.Repository
	passwords  *password.Hasher
	tokens     *jwt.Service
	refresh    *refreshtoken.Service
	revocation *revocation.Service
	resets     *resetcode.Service
	logger     *logging.Service
}

func NewService(
	cfg *config.Config,
	userRepo *users.Repository,
	passwords *password.Hasher,
	tokens *jwt.Service,
	refresh *refreshtoken.Service,
	revocationSvc *revocation.Service,
	resets *resetcode.Service,
	logger *logging.Service,
) *Service {
	return &Service{
		config:     cfg,
		users:      userRepo,
		passwords:  passwords,
		tokens:     tokens,
		refresh:    refresh,
		revocation: revocationSvc,
		resets:     resets,
		logger:     logger.Named("auth"),
	}
}

func (s *Service) Login(ctx context.Context, email, plain string, client ClientInfo) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.passwords.Verify(user.PasswordHash, plain); err != nil {
		s.logger.Info("login failed", zap.Uint("user_id", user.ID), zap.String("ip", client.IP))
		return nil, ErrInvalidCredentials
	}

	refresh, err := s.refresh.Issue(ctx, user.ID, refreshtoken.ClientInfo(client))
	if err != nil {
		return nil, err
	}
	return s.session(user, refresh)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*Session, error) {
	rotated, err := s.refresh.Rotate(ctx, refreshToken, refreshtoken.ClientInfo(client))
	if errors.Is(err, refreshtoken.ErrRefreshTokenNotFound) || errors.Is(err, refreshtoken.ErrRefreshTokenExpired) {
		return nil, ErrRefreshInvalid
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, rotated.UserID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	return s.session(user, rotated)
}

func (s *Service) session(user *users.User, refresh *refreshtoken.Issued) (*Session, error) {
	access, _, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		User:             user,
		AccessToken:      access,
		ExpiresIn:        s.tokens.AccessExpirySeconds(),
		RefreshToken:     refresh.Token,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// Logout revokes the access token's JTI and, when present, the refresh token.
func (s *Service) Logout(ctx context.Context, claims *jwt.Claims, refreshToken string) error {
	if s.revocation != nil && claims != nil && s.config.Revocation.Enabled {
		expiresAt := time.Now().Add(s.config.JWT.AccessExpiry)
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		if err := s.revocation.RevokeToken(ctx, claims.ID, claims.UserID, expiresAt); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*users.User, error) {
	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		Email:        input.Email,
		Name:         input.Name,
		LastName:     input.LastName,
		Phone:        input.Phone,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *Service) Me(ctx context.Context, userID uint) (*users.User, error) {
	return s.users.FindByID(ctx, userID)
}

// ForgotPassword issues a reset code when email belongs to a user. Unknown
// addresses and internal failures both return nil; only the issuance cooldown
// is reported.
func (s *Service) ForgotPassword(ctx context.Context, email string, client ClientInfo) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("forgot password lookup failed", zap.Error(err))
		return nil
	}
	if !exists {
		s.logger.Debug("forgot password for unknown email")
		return nil
	}

	// Known addresses pay for hashing and two writes and can hit the cooldown,
	// so response timing and a 429 still reveal that an account exists.
	err = s.resets.Issue(ctx, email, client, s.config.ResetCodeTTL())
	if errors.Is(err, resetcode.ErrRateLimited) {
		return err
	}
	if err != nil {
		s.logger.Error("failed to issue reset code", zap.Error(err))
	}
	return nil
}

func (s *Service) CanResetPassword(ctx context.Context, email, code string) (bool, error) {
	return s.resets.VerifyCode(ctx, email, code)
}

func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string, client ClientInfo) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if !exists {
		return users.ErrUserNotFound
	}
	return s.resets.ResetPassword(ctx, email, code, newPassword, client)
}
