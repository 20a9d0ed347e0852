package bootstrap

import (
	"testing"

	"nashr/internal/config"
	"nashr/internal/models"
	"nashr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemo_OnlyEmptyDevelopmentDatabases(t *testing.T) {
	t.Run("production is skipped", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		require.NoError(t, seedDemo(&config.Config{Env: "production"}, db))

		var n int64
		require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("non-empty is skipped", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		testutil.CreateUser(t, db, "existing")
		require.NoError(t, seedDemo(&config.Config{Env: "development"}, db))

		var n int64
		require.NoError(t, db.Model(&models.Post{}).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("empty development is seeded", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		require.NoError(t, seedDemo(&config.Config{Env: "development"}, db))

		var n int64
		require.NoError(t, db.Model(&models.Post{}).Count(&n).Error)
		assert.Positive(t, n)
	})
}
