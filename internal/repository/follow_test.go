package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"nashr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_FollowUnfollow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")

	f, err := repo.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)

	_, err = repo.Follow(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	following, err := repo.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := repo.Followers(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	require.NotNil(t, followers[0].Follower)
	assert.Equal(t, "a", followers[0].Follower.Username)

	removed, err := repo.Unfollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Unfollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFollowRepository_ConcurrentDuplicateFollow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")

	var created, duplicates atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Follow(ctx, a.ID, b.ID)
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, ErrAlreadyExists):
				duplicates.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(5), duplicates.Load())
}
