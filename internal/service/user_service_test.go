package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"nashr/internal/cache"
	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(t *testing.T, now time.Time) (*UserService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	svc := NewUserService(
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
		repository.NewStatsRepository(db),
		rdb,
		func() time.Time { return now },
	)
	return svc, db, mr
}

func TestGroupByMonth(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	got := groupByMonth([]repository.PostViews{
		{CreatedAt: jan, Views: 3},
		{CreatedAt: jan.Add(48 * time.Hour), Views: 4},
		{CreatedAt: feb, Views: 1},
	})
	assert.Equal(t, []MonthlyViews{{Month: "2025-01", Views: 7}, {Month: "2025-02", Views: 1}}, got)
	assert.Empty(t, groupByMonth(nil))
}

func TestUserService_Stats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	svc, db, mr := newUserService(t, now)
	author := testutil.CreateUser(t, db, "author")
	fan := testutil.CreateUser(t, db, "fan")

	old := testutil.CreatePost(t, db, author.ID, "old", testutil.Published(), testutil.WithViews(100),
		testutil.CreatedAt(now.AddDate(-1, 0, 0)))
	recent := testutil.CreatePost(t, db, author.ID, "recent", testutil.Published(), testutil.WithViews(20),
		testutil.CreatedAt(now.AddDate(0, -1, 0)))
	testutil.CreatePost(t, db, author.ID, "draft", testutil.WithViews(5), testutil.CreatedAt(now.AddDate(0, -1, 2)))
	require.NoError(t, db.Create(&models.Like{UserID: fan.ID, PostID: recent.ID}).Error)
	require.NoError(t, db.Create(&models.Bookmark{UserID: fan.ID, PostID: old.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: fan.ID, FollowingID: author.ID}).Error)

	stats, err := svc.Stats(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(125), stats.Views)
	assert.Equal(t, int64(1), stats.Likes)
	assert.Equal(t, int64(1), stats.Bookmarks)
	assert.Equal(t, int64(3), stats.Posts)
	assert.Equal(t, int64(1), stats.Followers)
	assert.Equal(t, PostStats{Published: 2, Drafts: 1, Total: 3}, stats.PostStats)
	require.Len(t, stats.TopPosts, 3)
	assert.Equal(t, "old", stats.TopPosts[0].Title)
	assert.Equal(t, []MonthlyViews{{Month: "2025-05", Views: 25}}, stats.MonthlyViews)

	assert.True(t, mr.Exists(cache.UserStatsKey(author.ID)))
	raw, err := mr.Get(cache.UserStatsKey(author.ID))
	require.NoError(t, err)
	var cached map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.EqualValues(t, 125, cached["totalViews"])

	_, err = svc.Stats(ctx, "")
	assertAppError(t, err, models.CodeUnauthorized)
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newUserService(t, time.Now())
	author := testutil.CreateUser(t, db, "author")
	testutil.CreatePost(t, db, author.ID, "pub", testutil.Published(), testutil.WithViews(9))
	testutil.CreatePost(t, db, author.ID, "draft", testutil.WithViews(50))

	profile, err := svc.Profile(ctx, "author")
	require.NoError(t, err)
	assert.Equal(t, author.ID, profile.ID)
	require.Len(t, profile.Posts, 1)
	assert.Equal(t, ProfileStats{TotalPosts: 1, TotalViews: 9}, profile.Stats)
	assert.Empty(t, profile.Email)

	_, err = svc.Profile(ctx, "nobody")
	assertAppError(t, err, models.CodeNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newUserService(t, time.Now())
	u := testutil.CreateUser(t, db, "writer")

	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: ptr(" نویسنده "), Bio: ptr("bio")})
	require.NoError(t, err)
	assert.Equal(t, "نویسنده", updated.Name)
	assert.Equal(t, "bio", updated.Bio)

	_, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: ptr("x")})
	assertValidationError(t, err)

	_, err = svc.UpdateProfile(ctx, "ghost", UpdateProfileInput{Bio: ptr("b")})
	assertAppError(t, err, models.CodeNotFound)
}
