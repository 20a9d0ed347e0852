package service

import (
	"context"
	"testing"

	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReactionService(t *testing.T) (*ReactionService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := NewReactionService(
		repository.NewReactionRepository(db),
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		newNotificationService(db),
	)
	return svc, db
}

func TestReactionService_ToggleLike(t *testing.T) {
	ctx := context.Background()
	svc, db := newReactionService(t)
	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	post := testutil.CreatePost(t, db, author.ID, "post", testutil.Published())

	liked, err := svc.ToggleLike(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	isLiked, err := svc.IsLiked(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, isLiked)

	liked, err = svc.ToggleLike(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	notes := notificationsOf(t, db, author.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationLike, notes[0].Type)

	_, err = svc.ToggleLike(ctx, "", post.ID)
	assertAppError(t, err, models.CodeUnauthorized)
	_, err = svc.ToggleLike(ctx, reader.ID, "")
	assertValidationError(t, err)
	_, err = svc.ToggleLike(ctx, reader.ID, "missing")
	assertAppError(t, err, models.CodeNotFound)
}

func TestReactionService_ToggleBookmark(t *testing.T) {
	ctx := context.Background()
	svc, db := newReactionService(t)
	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author.ID, "post", testutil.Published())

	marked, err := svc.ToggleBookmark(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, marked)
	assert.Empty(t, notificationsOf(t, db, author.ID))

	marks, err := svc.BookmarkedPosts(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	require.NotNil(t, marks[0].Post)
	assert.Equal(t, post.ID, marks[0].Post.ID)

	marked, err = svc.ToggleBookmark(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, marked)

	anon, err := svc.BookmarkedPosts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, anon)
}

func TestReactionService_ToggleCommentLike(t *testing.T) {
	ctx := context.Background()
	svc, db := newReactionService(t)
	u := testutil.CreateUser(t, db, "u")
	post := testutil.CreatePost(t, db, u.ID, "post")
	comment := testutil.CreateComment(t, db, post.ID, u.ID, "hi", nil)

	liked, likes, err := svc.ToggleCommentLike(ctx, u.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, likes)

	liked, likes, err = svc.ToggleCommentLike(ctx, u.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, likes)

	_, _, err = svc.ToggleCommentLike(ctx, u.ID, "")
	assertValidationError(t, err)
	_, _, err = svc.ToggleCommentLike(ctx, u.ID, "missing")
	assertAppError(t, err, models.CodeNotFound)
}
