package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tech-arch1tect/jwtauth/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RevokedToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	JTI       string    `json:"jti" gorm:"uniqueIndex;not null;size:64"`
	UserID    uint      `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Revoke(ctx context.Context, token RevokedToken) error
	IsRevoked(ctx context.Context, jti string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Revoke is idempotent per JTI.
func (s *GormStore) Revoke(ctx context.Context, token RevokedToken) error {
	err := database.Conn(ctx, s.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&token).Error
	if err != nil {
		return fmt.Errorf("failed to store revoked token: %w", err)
	}
	return nil
}

func (s *GormStore) IsRevoked(ctx context.Context, jti string, now time.Time) (bool, error) {
	var token RevokedToken
	err := database.Conn(ctx, s.db).Where("jti = ? AND expires_at > ?", jti, now).Take(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return true, nil
}

func (s *GormStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := database.Conn(ctx, s.db).Where("expires_at <= ?", now).Delete(&RevokedToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired revoked tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
