package jwt

import (
	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/services/revocation"
	"go.uber.org/fx"
)

type ServiceParams struct {
	fx.In

	Config     *config.Config
	Logger     *logging.Service    `optional:"true"`
	Revocation *revocation.Service `optional:"true"`
}

func ProvideJWTService(p ServiceParams) *Service {
	var checker RevocationChecker
	if p.Revocation != nil && p.Config.Revocation.Enabled {
		checker = p.Revocation
	}
	return NewService(p.Config, p.Logger, checker)
}

var Module = fx.Options(
	fx.Provide(ProvideJWTService),
)
