package service

import (
	"context"
	"testing"
	"time"

	"nashr/internal/cache"
	"nashr/internal/repository"
	"nashr/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	svc := NewFeedService(repository.NewPostRepository(db), repository.NewUserRepository(db), rdb,
		"https://medium-fa.ir", func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) })

	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author.ID, "اولین", testutil.Published(), testutil.WithTags(`["هوش مصنوعی"]`))
	draft := testutil.CreatePost(t, db, author.ID, "پیش‌نویس")

	rss, err := svc.RSS(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(rss), "https://medium-fa.ir/article/"+post.ID)
	assert.NotContains(t, string(rss), draft.ID)
	assert.True(t, mr.Exists(cache.RSSKey))

	sitemap, err := svc.Sitemap(ctx)
	require.NoError(t, err)
	body := string(sitemap)
	assert.Contains(t, body, "/profile/author")
	assert.Contains(t, body, "/topic/%D9%87%D9%88%D8%B4%20%D9%85%D8%B5%D9%86%D9%88%D8%B9%DB%8C")

	testutil.CreatePost(t, db, author.ID, "دومین", testutil.Published())
	cached, err := svc.RSS(ctx)
	require.NoError(t, err)
	assert.Equal(t, rss, cached, "served from cache until invalidated")

	cache.InvalidateContent(ctx, rdb)
	fresh, err := svc.RSS(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, rss, fresh)
}
