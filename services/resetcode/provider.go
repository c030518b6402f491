package resetcode

import (
	"context"

	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(ProvideGenerator),
	fx.Provide(fx.Annotate(NewGormStore, fx.As(new(Store)))),
	fx.Provide(ProvideService),
)

func ProvideGenerator(cfg *config.Config) (*Generator, error) {
	return NewGenerator(cfg.PasswordReset.CodeAlphabet, cfg.PasswordReset.CodeLength)
}

type ServiceParams struct {
	fx.In

	Lifecycle   fx.Lifecycle
	Config      *config.Config
	Store       Store
	Generator   *Generator
	Credentials CredentialStore
	Passwords   PasswordHasher
	Notifier    Notifier         `optional:"true"`
	Logger      *logging.Service `optional:"true"`
	Listeners   []Listener       `group:"resetcode_listeners"`
}

func ProvideService(p ServiceParams) *Service {
	opts := []Option{WithListener(NewSecurityLogListener(p.Logger))}
	for _, l := range p.Listeners {
		if l != nil {
			opts = append(opts, WithListener(l))
		}
	}

	svc := NewService(
		ConfigFrom(p.Config),
		p.Store,
		NewBcryptHasher(p.Config.Auth.BcryptCost, p.Config.PasswordReset.Pepper),
		p.Generator,
		p.Credentials,
		p.Passwords,
		p.Notifier,
		p.Logger,
		opts...,
	)

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				svc.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	return svc
}

func ConfigFrom(cfg *config.Config) Config {
	return Config{
		CodeLength:  cfg.PasswordReset.CodeLength,
		MaxAttempts: uint8(cfg.PasswordReset.MaxAttempts),
		Cooldown:    cfg.PasswordReset.Cooldown,
		AsyncNotify: cfg.PasswordReset.AsyncNotify,
	}
}
