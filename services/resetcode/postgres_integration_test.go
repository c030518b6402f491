//go:build integration

package resetcode_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/testutils"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("jwtauth_test"),
		postgres.WithUsername("jwtauth"),
		postgres.WithPassword("jwtauth"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&resetcode.Record{}, &credential{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestGormStore_PostgresRowLock(t *testing.T) {
	db := setupPostgres(t)
	require.NoError(t, db.Create(&credential{Email: testEmail, PasswordHash: "original"}).Error)

	gen, err := resetcode.NewGenerator(resetcode.DefaultAlphabet, resetcode.DefaultLength)
	require.NoError(t, err)
	notifier := &testutils.CapturingNotifier{}
	service := resetcode.NewService(defaultConfig(), resetcode.NewGormStore(db),
		resetcode.NewBcryptHasher(bcrypt.MinCost, ""), gen,
		&gormCredentials{db: db}, prefixHasher{}, notifier, logging.NewNop())

	require.NoError(t, service.Issue(context.Background(), testEmail, testutils.TestClient, time.Hour))
	sent, ok := notifier.Last(testEmail)
	require.True(t, ok)

	const workers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := service.ResetPassword(context.Background(), testEmail, sent.Code, "NewPassword1", testutils.TestClient)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, resetcode.ErrCodeExpired)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	var cred credential
	require.NoError(t, db.First(&cred, "email = ?", testEmail).Error)
	assert.Equal(t, 1, cred.Writes)
}
