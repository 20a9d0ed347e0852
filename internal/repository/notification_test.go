package repository

import (
	"context"
	"testing"

	"nashr/internal/models"
	"nashr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_Lifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	actor := testutil.CreateUser(t, db, "actor")
	post := testutil.CreatePost(t, db, owner.ID, "عنوان", testutil.Published())

	n := &models.Notification{UserID: owner.ID, ActorID: &actor.ID, PostID: &post.ID, Type: models.NotificationLike}
	require.NoError(t, repo.Create(ctx, n))
	require.NotNil(t, n.Actor)
	assert.Equal(t, "actor", n.Actor.Username)
	require.NotNil(t, n.Post)
	assert.Equal(t, "عنوان", n.Post.Title)

	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: owner.ID, ActorID: &actor.ID, Type: models.NotificationFollow}))

	unread, err := repo.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	ok, err := repo.MarkRead(ctx, actor.ID, n.ID)
	require.NoError(t, err)
	assert.False(t, ok, "another user cannot mark it read")

	ok, err = repo.MarkRead(ctx, owner.ID, n.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	items, total, err := repo.List(ctx, owner.ID, true, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, models.NotificationFollow, items[0].Type)

	marked, err := repo.MarkAllRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	deleted, err := repo.Delete(ctx, actor.ID, n.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, owner.ID, n.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	removed, err := repo.DeleteAll(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
