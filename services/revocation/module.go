package revocation

import (
	"context"

	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideRevocationService(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, logger *logging.Service) *Service {
	svc := NewService(NewGormStore(db), logger)

	if cfg.Revocation.Enabled {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				svc.StartCleanupWorker(cfg.Revocation.CleanupPeriod)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				svc.StopCleanupWorker()
				return nil
			},
		})
	}
	return svc
}

var Module = fx.Options(
	fx.Provide(ProvideRevocationService),
)
