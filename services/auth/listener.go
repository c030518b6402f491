package auth

import (
	"context"
	"time"

	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/services/refreshtoken"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/services/users"
	"go.uber.org/zap"
)

type SuccessNotifier interface {
	SendResetSuccess(ctx context.Context, email, ipAddress string, changedAt time.Time) error
}

// ResetListener ends existing sessions and mails a confirmation once a
// password reset has committed.
type ResetListener struct {
	users    *users.Repository
	refresh  *refreshtoken.Service
	notifier SuccessNotifier
	logger   *logging.Service
}

func NewResetListener(userRepo *users.Repository, refresh *refreshtoken.Service, notifier SuccessNotifier, logger *logging.Service) *ResetListener {
	return &ResetListener{
		users:    userRepo,
		refresh:  refresh,
		notifier: notifier,
		logger:   logger.Named("auth"),
	}
}

func (l *ResetListener) ResetRequested(ctx context.Context, event resetcode.RequestedEvent) {}

func (l *ResetListener) ResetCompleted(ctx context.Context, event resetcode.CompletedEvent) {
	user, err := l.users.FindByEmail(ctx, event.Email)
	if err != nil {
		l.logger.Error("password reset follow-up: user lookup failed", zap.Error(err))
		return
	}

	if _, err := l.refresh.RevokeAllForUser(ctx, user.ID); err != nil {
		l.logger.Error("failed to revoke refresh tokens after password reset", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	if l.notifier == nil {
		return
	}
	if err := l.notifier.SendResetSuccess(ctx, event.Email, event.Client.IP, event.At); err != nil {
		l.logger.Warn("failed to send password reset confirmation", zap.Uint("user_id", user.ID), zap.Error(err))
	}
}
