package resetcode_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/testutils"
	"go.uber.org/goleak"
)

func TestService_ResetPassword_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreCurrent(),
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)

	f := newFixture(t, defaultConfig())
	code := f.issue(t)

	const workers = 16
	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		mu        sync.Mutex
		successes int
		failures  []error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			err := f.service.ResetPassword(context.Background(), testEmail, code, "NewPassword1", testutils.TestClient)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	require.Len(t, failures, workers-1)
	for _, err := range failures {
		assert.True(t, errors.Is(err, resetcode.ErrCodeExpired), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, f.credential(t).Writes)
	assert.NotNil(t, f.latest(t).UsedAt)
}

func TestService_VerifyCode_ConcurrentMismatches(t *testing.T) {
	f := newFixture(t, defaultConfig())
	code := f.issue(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.service.VerifyCode(context.Background(), testEmail, wrongCode(code))
		}()
	}
	wg.Wait()

	assert.Equal(t, uint8(5), f.latest(t).Attempts)
}
