package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/testutils"
	"go.uber.org/fx"
)

type extraModel struct {
	ID   uint
	Name string
}

func TestAppBuilder_WithConfig(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewApp().WithConfig(nil).Build()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "config cannot be nil")
	})

	t.Run("valid config", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		builder := NewApp().WithConfig(cfg)

		assert.Same(t, cfg, builder.config)
		assert.True(t, builder.http)
	})
}

func TestAppBuilder_Build(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.Database.AutoMigrate = true

	var resets *resetcode.Service
	app, err := NewApp().
		WithConfig(cfg).
		WithLogger(logging.NewNop()).
		WithModels(&extraModel{}).
		WithFxOptions(fx.Populate(&resets)).
		Build()

	require.NoError(t, err)
	require.NotNil(t, app.Echo())
	require.NotNil(t, resets)
	assert.Same(t, cfg, app.Config())

	for _, model := range append(Models(), &extraModel{}) {
		assert.True(t, app.DB().Migrator().HasTable(model))
	}

	routes := map[string]bool{}
	for _, r := range app.Echo().Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/auth/login",
		"POST /api/auth/register",
		"POST /api/auth/refresh",
		"POST /api/auth/logout",
		"GET /api/auth/me",
		"POST /api/auth/forgot-password",
		"POST /api/auth/can-reset-password",
		"POST /api/auth/reset-password",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestAppBuilder_WithoutHTTP(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.Database.AutoMigrate = true

	app, err := NewApp().WithConfig(cfg).WithLogger(logging.NewNop()).WithoutHTTP().Build()

	require.NoError(t, err)
	assert.Nil(t, app.Echo())
	assert.NotNil(t, app.cleaner)
}

func TestAppBuilder_InvalidConfig(t *testing.T) {
	for _, withoutHTTP := range []bool{true, false} {
		cfg := testutils.GetTestConfig()
		cfg.PasswordReset.CodeAlphabet = "abc"

		builder := NewApp().WithConfig(cfg).WithLogger(logging.NewNop())
		if withoutHTTP {
			builder.WithoutHTTP()
		}
		_, err := builder.Build()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "alphabet")
	}
}

func TestAppBuilder_WiringError(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.Database.Driver = "unsupported"

	_, err := NewApp().WithConfig(cfg).WithLogger(logging.NewNop()).WithoutHTTP().Build()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to wire application")
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestAppBuilder_BuildsResetServiceWithoutHTTP(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.Database.AutoMigrate = true
	built := false

	_, err := NewApp().
		WithConfig(cfg).
		WithLogger(logging.NewNop()).
		WithoutHTTP().
		WithFxOptions(fx.Decorate(func(s *resetcode.Service) *resetcode.Service {
			built = true
			return s
		})).
		Build()

	require.NoError(t, err)
	assert.True(t, built)
}
