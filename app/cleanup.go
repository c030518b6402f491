package app

import (
	"context"
	"fmt"
	"time"

	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/services/refreshtoken"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/services/revocation"
	"go.uber.org/zap"
)

type CleanupReport struct {
	ResetCodes    int64
	RefreshTokens int64
	Revocations   int64
}

// Cleaner purges expired rows. Reset codes are kept for the configured
// retention after expiry.
type Cleaner struct {
	retention  time.Duration
	resets     resetcode.Store
	refresh    *refreshtoken.Service
	revocation *revocation.Service
	logger     *logging.Service
	now        func() time.Time
}

func NewCleaner(cfg *config.Config, resets resetcode.Store, refresh *refreshtoken.Service, revocationSvc *revocation.Service, logger *logging.Service) *Cleaner {
	return &Cleaner{
		retention:  max(cfg.PasswordReset.CleanupRetention, 0),
		resets:     resets,
		refresh:    refresh,
		revocation: revocationSvc,
		logger:     logger.Named("cleanup"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (c *Cleaner) Run(ctx context.Context) (CleanupReport, error) {
	var report CleanupReport
	var err error

	if report.ResetCodes, err = c.resets.CleanupBefore(ctx, c.now().Add(-c.retention)); err != nil {
		return report, err
	}
	if report.RefreshTokens, err = c.refresh.CleanupExpired(ctx); err != nil {
		return report, err
	}
	if report.Revocations, err = c.revocation.CleanupExpired(ctx); err != nil {
		return report, fmt.Errorf("failed to clean up revocations: %w", err)
	}

	c.logger.Info("cleanup finished",
		zap.Int64("reset_codes", report.ResetCodes),
		zap.Int64("refresh_tokens", report.RefreshTokens),
		zap.Int64("revocations", report.Revocations),
	)
	return report, nil
}
