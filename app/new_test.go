package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/jwtauth/internal/options"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/testutils"
)

func TestNew(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.Database.AutoMigrate = true
	logger := logging.NewNop()

	application, err := New(
		options.WithConfig(cfg),
		options.WithLogger(logger),
		options.WithModels(&extraModel{}),
		options.WithoutHTTP(),
	)

	require.NoError(t, err)
	assert.Same(t, logger, application.Logger())
	assert.Nil(t, application.Echo())
	assert.True(t, application.DB().Migrator().HasTable(&extraModel{}))
}
