package resetcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	assert.Equal(t, "PASSWORD_RESET_RATE_LIMITED", Code(ErrRateLimited))
	assert.Equal(t, "PASSWORD_RESET_CODE_EXPIRED", Code(ErrCodeExpired))
	assert.Equal(t, "PASSWORD_RESET_CODE_INVALID", Code(ErrCodeInvalid))
	assert.Equal(t, "PASSWORD_RESET_TOO_MANY_ATTEMPTS", Code(ErrTooManyAttempts))
	assert.Equal(t, "USER_NOT_FOUND", Code(ErrIdentityNotFound))
	assert.Equal(t, "PASSWORD_RESET_CODE_INVALID", Code(fmt.Errorf("reset: %w", ErrCodeInvalid)))
	assert.Empty(t, Code(errors.New("disk full")))
	assert.Empty(t, Code(nil))
}

func TestResetResult(t *testing.T) {
	assert.Equal(t, "success", resetResult(nil))
	assert.Equal(t, "expired", resetResult(ErrCodeExpired))
	assert.Equal(t, "invalid", resetResult(ErrCodeInvalid))
	assert.Equal(t, "too_many_attempts", resetResult(ErrTooManyAttempts))
	assert.Equal(t, "error", resetResult(ErrIdentityNotFound))
	assert.Equal(t, "error", resetResult(errors.New("boom")))
}
