package config

import "go.uber.org/fx"

// NewProvider supplies cfg to fx, or loads it from the environment when nil.
func NewProvider(cfg *Config) fx.Option {
	if cfg != nil {
		return fx.Provide(func() *Config {
			return cfg
		})
	}

	return fx.Provide(func() (*Config, error) {
		loaded := &Config{}
		if err := LoadConfig(loaded); err != nil {
			return nil, err
		}
		return loaded, nil
	})
}
