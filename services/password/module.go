package password

import (
	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(func(cfg *config.Config) *Hasher {
		return NewHasher(cfg.Auth.BcryptCost)
	}),
	fx.Provide(func(h *Hasher) resetcode.PasswordHasher { return h }),
)
