package resetcode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tech-arch1tect/jwtauth/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlreadyConsumed = errors.New("reset code already consumed")

type Store interface {
	Latest(ctx context.Context, email string) (*Record, error)
	LatestActive(ctx context.Context, email string, now time.Time) (*Record, error)
	Supersede(ctx context.Context, email string, now time.Time, record *Record) error
	IncrementAttempts(ctx context.Context, id uint) error
	WithLockedActive(ctx context.Context, email string, now time.Time, fn func(ctx context.Context, locked Locked) error) error
	CleanupBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Locked is the newest active record for an email, held under a row lock for
// the lifetime of a WithLockedActive callback.
type Locked interface {
	Record() *Record
	IncrementAttempts() error
	MarkUsed(at time.Time) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func activeScope(email string, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ? AND used_at IS NULL AND expires_at > ?", email, now)
	}
}

func (s *GormStore) Latest(ctx context.Context, email string) (*Record, error) {
	var record Record
	err := database.Conn(ctx, s.db).Where("email = ?", email).Order("id DESC").Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest reset code: %w", err)
	}
	return &record, nil
}

func (s *GormStore) LatestActive(ctx context.Context, email string, now time.Time) (*Record, error) {
	var record Record
	err := database.Conn(ctx, s.db).Scopes(activeScope(email, now)).Order("id DESC").Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active reset code: %w", err)
	}
	return &record, nil
}

// Supersede expires every active record for email and inserts record in one
// transaction.
func (s *GormStore) Supersede(ctx context.Context, email string, now time.Time, record *Record) error {
	return database.Conn(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&Record{}).
			Scopes(activeScope(email, now)).
			UpdateColumns(map[string]any{"expires_at": now, "updated_at": now}).Error
		if err != nil {
			return fmt.Errorf("failed to supersede reset codes: %w", err)
		}

		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to create reset code: %w", err)
		}
		return nil
	})
}

// IncrementAttempts never raises attempts past max_attempts.
func (s *GormStore) IncrementAttempts(ctx context.Context, id uint) error {
	return incrementAttempts(database.Conn(ctx, s.db), id)
}

func incrementAttempts(db *gorm.DB, id uint) error {
	err := db.Model(&Record{}).
		Where("id = ? AND attempts < max_attempts", id).
		UpdateColumn("attempts", gorm.Expr("attempts + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to increment reset code attempts: %w", err)
	}
	return nil
}

func (s *GormStore) WithLockedActive(ctx context.Context, email string, now time.Time, fn func(ctx context.Context, locked Locked) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record Record
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(activeScope(email, now)).
			Order("id DESC").
			Take(&record).Error

		locked := &lockedRecord{tx: tx}
		switch {
		case err == nil:
			locked.record = &record
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to lock active reset code: %w", err)
		}

		return fn(database.WithTx(ctx, tx), locked)
	})
}

func (s *GormStore) CleanupBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := database.Conn(ctx, s.db).Where("expires_at < ?", cutoff).Delete(&Record{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clean up reset codes: %w", result.Error)
	}
	return result.RowsAffected, nil
}

type lockedRecord struct {
	tx     *gorm.DB
	record *Record
}

func (l *lockedRecord) Record() *Record {
	return l.record
}

func (l *lockedRecord) IncrementAttempts() error {
	if l.record == nil {
		return gorm.ErrRecordNotFound
	}
	if err := incrementAttempts(l.tx, l.record.ID); err != nil {
		return err
	}
	if l.record.Attempts < l.record.MaxAttempts {
		l.record.Attempts++
	}
	return nil
}

func (l *lockedRecord) MarkUsed(at time.Time) error {
	if l.record == nil {
		return gorm.ErrRecordNotFound
	}
	result := l.tx.Model(&Record{}).
		Where("id = ? AND used_at IS NULL", l.record.ID).
		UpdateColumns(map[string]any{"used_at": at, "updated_at": at})
	if result.Error != nil {
		return fmt.Errorf("failed to mark reset code used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyConsumed
	}
	l.record.UsedAt = &at
	return nil
}
