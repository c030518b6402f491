package logging

import (
	"context"

	"github.com/tech-arch1tect/jwtauth/config"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewLoggingService),
)

func NewLoggingService(lc fx.Lifecycle, cfg *config.Config) (*Service, error) {
	logger, err := NewService(Config{
		Level:      LogLevel(cfg.Log.Level),
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.Output,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stdout sync fails on some platforms
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}
