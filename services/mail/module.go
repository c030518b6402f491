package mail

import (
	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"go.uber.org/fx"
)

func ProvideMailService(cfg *config.Config, logger *logging.Service) (*Service, error) {
	if !cfg.Mail.Enabled {
		mailCfg := cfg.Mail
		if mailCfg.FromAddress == "" {
			mailCfg.FromAddress = "noreply@localhost"
		}
		return NewServiceWithSender(&mailCfg, logger, NewLogSender(logger))
	}
	return NewService(&cfg.Mail, logger)
}

func ProvideResetCodeNotifier(cfg *config.Config, svc *Service) *ResetCodeNotifier {
	return NewResetCodeNotifier(svc, cfg.App.Name, cfg.Mail.SendAttempts)
}

var Module = fx.Options(
	fx.Provide(ProvideMailService),
	fx.Provide(ProvideResetCodeNotifier),
	fx.Provide(func(n *ResetCodeNotifier) resetcode.Notifier { return n }),
)
