// Package jwtauth is a JWT authentication service with refresh tokens and
// one-time-code password reset.
package jwtauth

import (
	"github.com/tech-arch1tect/jwtauth/app"
	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/internal/options"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/fx"
)

type App = app.App

func New(opts ...options.Option) (*App, error) {
	return app.New(opts...)
}

func WithConfig(cfg *config.Config) options.Option {
	return options.WithConfig(cfg)
}

func WithLogger(logger *logging.Service) options.Option {
	return options.WithLogger(logger)
}

// WithModels migrates additional application models with the service tables.
func WithModels(models ...any) options.Option {
	return options.WithModels(models...)
}

func WithoutHTTP() options.Option {
	return options.WithoutHTTP()
}

func WithFxOptions(fxOpts ...fx.Option) options.Option {
	return options.WithFxOptions(fxOpts...)
}
