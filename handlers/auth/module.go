package auth

import (
	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/middleware/ratelimit"
	"github.com/tech-arch1tect/jwtauth/server"
	"github.com/tech-arch1tect/jwtauth/services/jwt"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewHandler, NewValidator),
	fx.Invoke(func(srv *server.Server, cfg *config.Config, v *Validator, h *Handler, tokens *jwt.Service, limits *ratelimit.Limits) {
		srv.SetValidator(v)
		RegisterRoutes(srv.Group(cfg.Server.RoutePrefix), h, tokens, limits)
	}),
)
