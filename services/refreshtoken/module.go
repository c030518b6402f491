package refreshtoken

import (
	"context"

	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideRefreshTokenService(lc fx.Lifecycle, db *gorm.DB, cfg *config.Config, logger *logging.Service) *Service {
	service := NewService(db, cfg, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			service.StartCleanupWorker(cfg.RefreshToken.CleanupInterval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			service.StopCleanupWorker()
			return nil
		},
	})
	return service
}

var Module = fx.Options(
	fx.Provide(ProvideRefreshTokenService),
)
