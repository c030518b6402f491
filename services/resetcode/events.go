package resetcode

import (
	"context"
	"time"

	"github.com/mileusna/useragent"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/zap"
)

type RequestedEvent struct {
	Email     string
	Client    ClientInfo
	ExpiresAt time.Time
	At        time.Time
}

type CompletedEvent struct {
	Email  string
	Client ClientInfo
	At     time.Time
}

// Listener receives lifecycle events after the triggering operation has
// committed. Listeners must not block for long.
type Listener interface {
	ResetRequested(ctx context.Context, event RequestedEvent)
	ResetCompleted(ctx context.Context, event CompletedEvent)
}

type SecurityLogListener struct {
	logger *logging.Service
}

func NewSecurityLogListener(logger *logging.Service) *SecurityLogListener {
	return &SecurityLogListener{logger: logger.Named("security")}
}

func (l *SecurityLogListener) ResetRequested(ctx context.Context, event RequestedEvent) {
	fields := append(clientFields(event.Client),
		zap.String("email", event.Email),
		zap.Time("expires_at", event.ExpiresAt),
	)
	l.logger.Info("password reset requested", fields...)
}

func (l *SecurityLogListener) ResetCompleted(ctx context.Context, event CompletedEvent) {
	fields := append(clientFields(event.Client), zap.String("email", event.Email))
	l.logger.Info("password reset completed", fields...)
}

func clientFields(client ClientInfo) []zap.Field {
	fields := []zap.Field{zap.String("ip_address", client.IP)}
	if client.UserAgent == "" {
		return fields
	}

	ua := useragent.Parse(client.UserAgent)
	return append(fields,
		zap.String("browser", ua.Name),
		zap.String("os", ua.OS),
		zap.String("device_type", deviceType(ua)),
	)
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}
