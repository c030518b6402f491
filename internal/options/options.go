package options

import (
	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/fx"
)

type Options struct {
	Config         *config.Config
	Logger         *logging.Service
	Models         []any
	DisableHTTP    bool
	ExtraFxOptions []fx.Option
}

type Option func(*Options)

func Apply(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func WithConfig(cfg *config.Config) Option {
	return func(opts *Options) {
		opts.Config = cfg
	}
}

func WithLogger(logger *logging.Service) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func WithModels(models ...any) Option {
	return func(opts *Options) {
		opts.Models = append(opts.Models, models...)
	}
}

func WithoutHTTP() Option {
	return func(opts *Options) {
		opts.DisableHTTP = true
	}
}

func WithFxOptions(fxOpts ...fx.Option) Option {
	return func(opts *Options) {
		opts.ExtraFxOptions = append(opts.ExtraFxOptions, fxOpts...)
	}
}
