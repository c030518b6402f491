package ratelimit

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/jwtauth/config"
	"go.uber.org/fx"
)

// Limits builds the per-IP throttles for the auth routes from one shared store.
type Limits struct {
	store Store
	cfg   config.RateLimitConfig
}

func NewLimits(store Store, cfg *config.Config) *Limits {
	return &Limits{store: store, cfg: cfg.RateLimit}
}

// Login counts only failed attempts; a successful login clears them.
func (l *Limits) Login() echo.MiddlewareFunc {
	return Middleware(&Config{
		Store:          l.store,
		Rate:           l.cfg.LoginRate,
		Period:         l.cfg.LoginPeriod,
		CountMode:      config.CountFailures,
		Scope:          "login",
		ResetOnSuccess: true,
	})
}

func (l *Limits) ForgotPassword() echo.MiddlewareFunc {
	return Middleware(&Config{
		Store:  l.store,
		Rate:   l.cfg.ForgotRate,
		Period: l.cfg.ForgotPeriod,
		Scope:  "forgot",
	})
}

func (l *Limits) ResetPassword() echo.MiddlewareFunc {
	return Middleware(&Config{
		Store:  l.store,
		Rate:   l.cfg.ResetRate,
		Period: l.cfg.ResetPeriod,
		Scope:  "reset",
	})
}

func ProvideRateLimitStore(lc fx.Lifecycle, cfg *config.Config) Store {
	store := NewStore(&cfg.RateLimit)
	if closer, ok := store.(interface{ Close() }); ok {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				closer.Close()
				return nil
			},
		})
	}
	return store
}

var Module = fx.Options(
	fx.Provide(ProvideRateLimitStore, NewLimits),
)
