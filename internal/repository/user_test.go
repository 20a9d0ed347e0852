package repository

import (
	"context"
	"testing"
	"time"

	"nashr/internal/models"
	"nashr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{Name: "سارا", Username: "sara", Email: "sara@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEmpty(t, first.ID)

	tests := []struct {
		name string
		user *models.User
	}{
		{"same email", &models.User{Username: "sara2", Email: "sara@example.com", Password: "hash"}},
		{"same username", &models.User{Username: "sara", Email: "other@example.com", Password: "hash"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, repo.Create(ctx, tt.user), ErrAlreadyExists)
		})
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo := NewUserRepository(testutil.NewTestDB(t))
	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestUserRepository_ResetTokenLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "reza")
	now := time.Now()

	require.NoError(t, repo.SetResetToken(ctx, user.ID, "tok", now.Add(time.Hour)))

	found, err := repo.GetByResetToken(ctx, "tok", now)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	expired, err := repo.GetByResetToken(ctx, "tok", now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, expired)

	require.NoError(t, repo.ResetPassword(ctx, user.ID, "new-hash"))
	cleared, err := repo.GetByResetToken(ctx, "tok", now)
	require.NoError(t, err)
	assert.Nil(t, cleared)

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", reloaded.Password)
	assert.Nil(t, reloaded.ResetToken)
}

func TestUserRepository_SearchWithCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	ali := testutil.CreateUser(t, db, "ali")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreateUser(t, db, "carol")
	testutil.CreatePost(t, db, ali.ID, "یک", testutil.Published())
	testutil.CreatePost(t, db, ali.ID, "پیش‌نویس")
	_, err := NewFollowRepository(db).Follow(ctx, bob.ID, ali.ID)
	require.NoError(t, err)

	users, total, err := repo.Search(ctx, "AL", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].PostsCount)
	assert.Equal(t, int64(1), users[0].FollowersCount)
	assert.Empty(t, users[0].Email)

	authors, err := repo.ListWithPublishedPosts(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "ali", authors[0].Username)
}

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, containsPattern(" 50%_OFF "))
}
