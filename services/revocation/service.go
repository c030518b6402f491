package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/zap"
)

type Service struct {
	store  Store
	logger *logging.Service
	now    func() time.Time

	stop context.CancelFunc
	done sync.WaitGroup
}

func NewService(store Store, logger *logging.Service) *Service {
	return &Service{
		store:  store,
		logger: logger.Named("revocation"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	if err := s.store.Revoke(ctx, RevokedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt.UTC()}); err != nil {
		s.logger.Error("failed to revoke token", zap.String("jti", jti), zap.Error(err))
		return err
	}

	s.logger.Info("token revoked", zap.String("jti", jti), zap.Uint("user_id", userID))
	return nil
}

func (s *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.store.IsRevoked(ctx, jti, s.now())
}

func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	deleted, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Debug("removed expired revoked tokens", zap.Int64("count", deleted))
	}
	return deleted, nil
}

// StartCleanupWorker runs CleanupExpired every interval until StopCleanupWorker.
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
					s.logger.Error("revocation cleanup failed", zap.Error(err))
				}
			}
		}
	}()

	s.logger.Info("started revocation cleanup worker", zap.Duration("interval", interval))
}

func (s *Service) StopCleanupWorker() {
	if s.stop == nil {
		return
	}
	s.stop()
	s.done.Wait()
	s.stop = nil
}
