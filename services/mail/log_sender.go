package mail

import (
	"context"

	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// LogSender records outgoing messages in the log instead of delivering them.
// Message bodies are never logged.
type LogSender struct {
	logger *logging.Service
}

func NewLogSender(logger *logging.Service) *LogSender {
	return &LogSender{logger: logger.Named("mail")}
}

func (l *LogSender) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	for _, msg := range messages {
		l.logger.Info("mail delivery disabled, message dropped",
			zap.Strings("to", msg.GetToString()),
			zap.Strings("subject", msg.GetGenHeader(mail.HeaderSubject)))
	}
	return nil
}
