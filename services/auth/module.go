package auth

import (
	"github.com/tech-arch1tect/jwtauth/services/mail"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(n *mail.ResetCodeNotifier) SuccessNotifier { return n }),
	fx.Provide(NewResetListener),
	fx.Provide(fx.Annotate(
		func(l *ResetListener) resetcode.Listener { return l },
		fx.ResultTags(`group:"resetcode_listeners"`),
	)),
)
