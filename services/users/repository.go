package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tech-arch1tect/jwtauth/database"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is shared with the reset lifecycle.
	ErrUserNotFound = resetcode.ErrIdentityNotFound
	ErrEmailTaken   = errors.New("email already registered")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	user.Email = NormalizeEmail(user.Email)

	exists, err := r.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}

	if err := database.Conn(ctx, r.db).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := database.Conn(ctx, r.db).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := database.Conn(ctx, r.db).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&User{}).Where("email = ?", NormalizeEmail(email)).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user email: %w", err)
	}
	return count > 0, nil
}

// SetPassword overwrites the password hash, joining any transaction in ctx.
func (r *Repository) SetPassword(ctx context.Context, email, passwordHash string) error {
	result := database.Conn(ctx, r.db).Model(&User{}).
		Where("email = ?", NormalizeEmail(email)).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
