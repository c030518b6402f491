package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/jwtauth/database"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/testutils"
	"gorm.io/gorm"
)

func TestRepository(t *testing.T) {
	db := testutils.SetupTestDB(t, &User{})
	repo := NewRepository(db)
	ctx := context.Background()

	user := &User{Email: " Jane@Example.com ", Name: "Jane", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotZero(t, user.ID)

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &User{Email: "JANE@example.com", PasswordHash: "x"})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("find by email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "jane@EXAMPLE.com")

		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane", found.Name)

		_, err = repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("set password", func(t *testing.T) {
		require.NoError(t, repo.SetPassword(ctx, "jane@example.com", "new-hash"))

		found, err := repo.FindByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, "new-hash", found.PasswordHash)
	})

	t.Run("set password for unknown user", func(t *testing.T) {
		err := repo.SetPassword(ctx, "nobody@example.com", "new-hash")

		assert.ErrorIs(t, err, resetcode.ErrIdentityNotFound)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("set password joins transaction", func(t *testing.T) {
		errAbort := errors.New("abort")

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := repo.SetPassword(database.WithTx(ctx, tx), "jane@example.com", "rolled-back"); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		found, err := repo.FindByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, "new-hash", found.PasswordHash)
	})
}
