package repository

import (
	"context"
	"testing"
	"time"

	"nashr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepository_AuthorTotals(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewStatsRepository(db)
	reactions := NewReactionRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	fan := testutil.CreateUser(t, db, "fan")
	hit := testutil.CreatePost(t, db, author.ID, "پربازدید", testutil.Published(), testutil.WithViews(30))
	testutil.CreatePost(t, db, author.ID, "پیش‌نویس", testutil.WithViews(4))

	_, err := reactions.ToggleLike(ctx, fan.ID, hit.ID)
	require.NoError(t, err)
	_, err = reactions.ToggleBookmark(ctx, fan.ID, hit.ID)
	require.NoError(t, err)
	_, err = follows.Follow(ctx, fan.ID, author.ID)
	require.NoError(t, err)

	totals, err := repo.AuthorTotals(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, &AuthorTotals{
		Views:          34,
		Likes:          1,
		Bookmarks:      1,
		Posts:          2,
		Followers:      1,
		Following:      0,
		PublishedPosts: 1,
		PublishedViews: 30,
	}, totals)

	top, err := repo.TopPosts(ctx, author.ID, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, TopPost{ID: hit.ID, Title: "پربازدید", Views: 30, Likes: 1}, top[0])

	views, err := repo.ViewsSince(ctx, author.ID, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, views, 2)

	profile, err := repo.Profile(ctx, "author")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.PostsCount)
	assert.Equal(t, int64(1), profile.FollowersCount)

	_, err = repo.Profile(ctx, "nobody")
	assert.True(t, IsNotFound(err))
}
