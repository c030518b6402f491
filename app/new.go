package app

import "github.com/tech-arch1tect/jwtauth/internal/options"

// New builds an App from functional options. Config is loaded from the
// environment when none is given.
func New(opts ...options.Option) (*App, error) {
	o := options.Apply(opts...)

	b := NewApp().WithModels(o.Models...).WithFxOptions(o.ExtraFxOptions...)
	if o.Config != nil {
		b.WithConfig(o.Config)
	}
	if o.Logger != nil {
		b.WithLogger(o.Logger)
	}
	if o.DisableHTTP {
		b.WithoutHTTP()
	}
	return b.Build()
}
