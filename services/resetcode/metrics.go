package resetcode

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	codesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jwtauth_reset_codes_issued_total",
		Help: "Total number of password reset codes issued",
	})

	issueRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jwtauth_reset_code_rate_limited_total",
		Help: "Total number of reset code requests rejected by the issuance cooldown",
	})

	// result: match, mismatch, locked, missing
	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jwtauth_reset_code_verifications_total",
		Help: "Total number of reset code verification checks",
	}, []string{"result"})

	// result: success, expired, invalid, too_many_attempts, error
	passwordResets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jwtauth_password_resets_total",
		Help: "Total number of password reset attempts",
	}, []string{"result"})

	notifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jwtauth_reset_code_notify_failures_total",
		Help: "Total number of reset code notifications that could not be delivered",
	})
)

func resetResult(err error) string {
	switch Code(err) {
	case "":
		if err == nil {
			return "success"
		}
		return "error"
	case CodeExpired:
		return "expired"
	case CodeInvalid:
		return "invalid"
	case CodeTooManyAttempts:
		return "too_many_attempts"
	default:
		return "error"
	}
}
