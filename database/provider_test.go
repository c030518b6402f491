package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"gorm.io/gorm"
)

func createTestConfig(driver, dsn string, autoMigrate bool) config.Config {
	return config.Config{
		Database: config.DatabaseConfig{
			Driver:      driver,
			DSN:         dsn,
			AutoMigrate: autoMigrate,
		},
	}
}

func newTestLogger() *logging.Service {
	logger, _ := logging.NewService(logging.Config{
		Level:      logging.Debug,
		Format:     "console",
		OutputPath: "stdout",
	})
	return logger
}

type TestModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255"`
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestWithModels(t *testing.T) {
	t.Run("with multiple models", func(t *testing.T) {
		option := WithModels(TestModel{}, &TestModel{})

		assert.Len(t, option.Models(), 2)
	})

	t.Run("nil option has no models", func(t *testing.T) {
		var option *ModelsOption

		assert.Empty(t, option.Models())
	})
}

func TestProvideDatabase_SQLite(t *testing.T) {
	t.Run("in-memory", func(t *testing.T) {
		db, err := ProvideDatabase(createTestConfig("sqlite", ":memory:", false), nil, newTestLogger())

		require.NoError(t, err)
		defer closeDB(t, db)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.NoError(t, sqlDB.Ping())
	})

	t.Run("file-based", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := ProvideDatabase(createTestConfig("sqlite", dbPath, false), nil, nil)

		require.NoError(t, err)
		defer closeDB(t, db)

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("auto-migrates models", func(t *testing.T) {
		db, err := ProvideDatabase(createTestConfig("sqlite", ":memory:", true), WithModels(&TestModel{}), nil)

		require.NoError(t, err)
		defer closeDB(t, db)
		assert.True(t, db.Migrator().HasTable(&TestModel{}))
	})

	t.Run("skips migration when disabled", func(t *testing.T) {
		db, err := ProvideDatabase(createTestConfig("sqlite", ":memory:", false), WithModels(&TestModel{}), nil)

		require.NoError(t, err)
		defer closeDB(t, db)
		assert.False(t, db.Migrator().HasTable(&TestModel{}))
	})
}

func TestProvideDatabase_UnsupportedDriver(t *testing.T) {
	for _, driver := range []string{"unsupported", ""} {
		t.Run("driver "+driver, func(t *testing.T) {
			db, err := ProvideDatabase(createTestConfig(driver, "test", false), nil, newTestLogger())

			require.Error(t, err)
			assert.Nil(t, db)
			assert.Contains(t, err.Error(), "unsupported database driver")
			assert.Contains(t, err.Error(), "supported: sqlite, postgres, mysql")
		})
	}
}

func TestConn(t *testing.T) {
	db, err := ProvideDatabase(createTestConfig("sqlite", ":memory:", true), WithModels(&TestModel{}), nil)
	require.NoError(t, err)
	defer closeDB(t, db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Run("without transaction returns db", func(t *testing.T) {
		ctx := context.Background()

		assert.False(t, InTx(ctx))
		require.NoError(t, Conn(ctx, db).Create(&TestModel{Name: "plain"}).Error)
	})

	t.Run("joins transaction from context", func(t *testing.T) {
		errRollback := errors.New("rollback")

		err := db.Transaction(func(tx *gorm.DB) error {
			ctx := WithTx(context.Background(), tx)
			assert.True(t, InTx(ctx))

			if err := Conn(ctx, db).Create(&TestModel{Name: "rolled-back"}).Error; err != nil {
				return err
			}
			return errRollback
		})
		require.ErrorIs(t, err, errRollback)

		var count int64
		require.NoError(t, db.Model(&TestModel{}).Where("name = ?", "rolled-back").Count(&count).Error)
		assert.Zero(t, count)
	})
}
