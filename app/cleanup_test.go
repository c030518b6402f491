package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/services/refreshtoken"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/services/revocation"
	"github.com/tech-arch1tect/jwtauth/testutils"
)

func TestCleaner_Run(t *testing.T) {
	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, Models()...)
	logger := logging.NewNop()
	ctx := context.Background()
	now := time.Now().UTC()

	store := resetcode.NewGormStore(db)
	refresh := refreshtoken.NewService(db, cfg, logger)
	revocationSvc := revocation.NewService(revocation.NewGormStore(db), logger)

	records := []resetcode.Record{
		{Email: "old@example.com", CodeHash: "x", MaxAttempts: 5, ExpiresAt: now.Add(-cfg.PasswordReset.CleanupRetention - time.Hour), CreatedAt: now, UpdatedAt: now},
		{Email: "recent@example.com", CodeHash: "x", MaxAttempts: 5, ExpiresAt: now.Add(-time.Hour), CreatedAt: now, UpdatedAt: now},
	}
	require.NoError(t, db.Create(&records).Error)
	require.NoError(t, revocationSvc.RevokeToken(ctx, "expired-jti", 1, now.Add(-time.Minute)))
	require.NoError(t, revocationSvc.RevokeToken(ctx, "live-jti", 1, now.Add(time.Hour)))

	cleaner := NewCleaner(cfg, store, refresh, revocationSvc, logger)
	report, err := cleaner.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), report.ResetCodes)
	assert.Equal(t, int64(1), report.Revocations)

	var remaining int64
	require.NoError(t, db.Model(&resetcode.Record{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestCleaner_NegativeRetentionKeepsActiveCodes(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.PasswordReset.CleanupRetention = -time.Hour
	db := testutils.SetupTestDB(t, Models()...)
	logger := logging.NewNop()
	now := time.Now().UTC()

	active := resetcode.Record{Email: "user@example.com", CodeHash: "x", MaxAttempts: 5, ExpiresAt: now.Add(30 * time.Minute), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(&active).Error)

	cleaner := NewCleaner(cfg, resetcode.NewGormStore(db), refreshtoken.NewService(db, cfg, logger),
		revocation.NewService(revocation.NewGormStore(db), logger), logger)
	report, err := cleaner.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.ResetCodes)

	var remaining int64
	require.NoError(t, db.Model(&resetcode.Record{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}
