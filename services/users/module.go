package users

import (
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewRepository),
	fx.Provide(func(r *Repository) resetcode.CredentialStore { return r }),
)
