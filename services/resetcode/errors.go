package resetcode

import "errors"

var (
	ErrRateLimited      = errors.New("password reset rate limited")
	ErrCodeExpired      = errors.New("password reset code expired")
	ErrCodeInvalid      = errors.New("password reset code invalid")
	ErrTooManyAttempts  = errors.New("too many password reset attempts")
	ErrIdentityNotFound = errors.New("user not found")
)

const (
	CodeRateLimited      = "PASSWORD_RESET_RATE_LIMITED"
	CodeExpired          = "PASSWORD_RESET_CODE_EXPIRED"
	CodeInvalid          = "PASSWORD_RESET_CODE_INVALID"
	CodeTooManyAttempts  = "PASSWORD_RESET_TOO_MANY_ATTEMPTS"
	CodeIdentityNotFound = "USER_NOT_FOUND"
)

// Code returns the client-facing code for err, or "" when err is not a reset
// outcome.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrCodeExpired):
		return CodeExpired
	case errors.Is(err, ErrCodeInvalid):
		return CodeInvalid
	case errors.Is(err, ErrTooManyAttempts):
		return CodeTooManyAttempts
	case errors.Is(err, ErrIdentityNotFound):
		return CodeIdentityNotFound
	default:
		return ""
	}
}
