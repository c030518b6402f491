package mail

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	TemplateResetCode    = "password_reset_code"
	TemplateResetSuccess = "password_reset_success"
)

type TemplateSender interface {
	SendTemplate(ctx context.Context, templateName string, to []string, subject string, data map[string]any) error
}

// ResetCodeNotifier mails reset codes, retrying transport failures with
// exponential backoff.
type ResetCodeNotifier struct {
	mailer   TemplateSender
	appName  string
	attempts uint64
	backoff  time.Duration
}

func NewResetCodeNotifier(mailer TemplateSender, appName string, attempts uint64) *ResetCodeNotifier {
	if attempts == 0 {
		attempts = 1
	}
	return &ResetCodeNotifier{
		mailer:   mailer,
		appName:  appName,
		attempts: attempts,
		backoff:  500 * time.Millisecond,
	}
}

func (n *ResetCodeNotifier) SendResetCode(ctx context.Context, email, code, expiresIn string) error {
	data := map[string]any{
		"AppName":   n.appName,
		"Code":      code,
		"ExpiresIn": expiresIn,
	}
	return n.send(ctx, TemplateResetCode, email, n.appName+" password reset code", data)
}

func (n *ResetCodeNotifier) SendResetSuccess(ctx context.Context, email, ipAddress string, changedAt time.Time) error {
	data := map[string]any{
		"AppName":   n.appName,
		"IPAddress": ipAddress,
		"ChangedAt": changedAt.UTC().Format(time.RFC1123),
	}
	return n.send(ctx, TemplateResetSuccess, email, n.appName+" password changed", data)
}

func (n *ResetCodeNotifier) send(ctx context.Context, templateName, email, subject string, data map[string]any) error {
	backoff := retry.WithMaxRetries(n.attempts-1, retry.NewExponential(n.backoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := n.mailer.SendTemplate(ctx, templateName, []string{email}, subject, data)
		if errors.Is(err, ErrDelivery) {
			return retry.RetryableError(err)
		}
		return err
	})
}
