package refreshtoken

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/database"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrRefreshTokenNotFound  = errors.New("refresh token not found")
	ErrRefreshTokenExpired   = errors.New("refresh token expired")
	ErrTokenGenerationFailed = errors.New("failed to generate secure token")
)

type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logging.Service
	now    func() time.Time

	stop context.CancelFunc
	done sync.WaitGroup
}

func NewService(db *gorm.DB, cfg *config.Config, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger.Named("refreshtoken"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Issue(ctx context.Context, userID uint, client ClientInfo) (*Issued, error) {
	return s.issue(database.Conn(ctx, s.db), userID, client)
}

func (s *Service) issue(db *gorm.DB, userID uint, client ClientInfo) (*Issued, error) {
	token, err := s.generateSecureToken()
	if err != nil {
		s.logger.Error("failed to generate secure refresh token", zap.Error(err))
		return nil, ErrTokenGenerationFailed
	}

	now := s.now()
	record := RefreshToken{
		UserID:     userID,
		TokenHash:  hashToken(token),
		ExpiresAt:  now.Add(s.config.RefreshToken.Expiry),
		CreatedAt:  now,
		LastUsed:   now,
		IPAddress:  client.IP,
		DeviceInfo: encodeDeviceInfo(client.UserAgent),
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	s.logger.Debug("refresh token issued", zap.Uint("user_id", userID), zap.Uint("token_id", record.ID))
	return &Issued{Token: token, ID: record.ID, UserID: userID, ExpiresAt: record.ExpiresAt}, nil
}

// Rotate exchanges a valid token for a new one. The old token is deleted in
// the same transaction so it can be rotated at most once.
func (s *Service) Rotate(ctx context.Context, token string, client ClientInfo) (*Issued, error) {
	var issued *Issued
	expired := false

	err := database.Conn(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var old RefreshToken
		err := tx.Where("token_hash = ?", hashToken(token)).Take(&old).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRefreshTokenNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load refresh token: %w", err)
		}

		result := tx.Where("id = ?", old.ID).Delete(&RefreshToken{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete refresh token: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRefreshTokenNotFound
		}

		if !old.ExpiresAt.After(s.now()) {
			expired = true
			return nil
		}

		issued, err = s.issue(tx, old.UserID, client)
		return err
	})
	if err == nil && expired {
		err = ErrRefreshTokenExpired
	}
	if err != nil {
		s.logger.Debug("refresh token rotation rejected", zap.Error(err))
		return nil, err
	}
	return issued, nil
}

func (s *Service) Revoke(ctx context.Context, token string) error {
	result := database.Conn(ctx, s.db).Where("token_hash = ?", hashToken(token)).Delete(&RefreshToken{})
	if result.Error != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", result.Error)
	}
	return nil
}

func (s *Service) RevokeAllForUser(ctx context.Context, userID uint) (int64, error) {
	result := database.Conn(ctx, s.db).Where("user_id = ?", userID).Delete(&RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke user refresh tokens: %w", result.Error)
	}
	s.logger.Info("revoked user refresh tokens", zap.Uint("user_id", userID), zap.Int64("count", result.RowsAffected))
	return result.RowsAffected, nil
}

func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	result := database.Conn(ctx, s.db).Where("expires_at <= ?", s.now()).Delete(&RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired refresh tokens: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("cleaned up expired refresh tokens", zap.Int64("count", result.RowsAffected))
	}
	return result.RowsAffected, nil
}

func (s *Service) StartCleanupWorker(interval time.Duration) {
	if interval <= 0 || s.stop != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	s.done.Add(1)

	go func() {
		defer s.done.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.CleanupExpired(ctx); err != nil {
					s.logger.Error("refresh token cleanup worker failed", zap.Error(err))
				}
			}
		}
	}()

	s.logger.Info("started refresh token cleanup worker", zap.Duration("interval", interval))
}

func (s *Service) StopCleanupWorker() {
	if s.stop == nil {
		return
	}
	s.stop()
	s.done.Wait()
	s.stop = nil
}

func (s *Service) generateSecureToken() (string, error) {
	tokenBytes := make([]byte, s.config.RefreshToken.TokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
