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

func newCommentService(t *testing.T) (*CommentService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewPostRepository(db),
		newNotificationService(db),
	)
	return svc, db
}

func TestCommentService_CreateComment(t *testing.T) {
	ctx := context.Background()
	svc, db := newCommentService(t)
	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	post := testutil.CreatePost(t, db, author.ID, "post", testutil.Published())

	comment, err := svc.CreateComment(ctx, reader.ID, CreateCommentInput{PostID: post.ID, Content: "  عالی بود  "})
	require.NoError(t, err)
	assert.Equal(t, "عالی بود", comment.Content)
	require.NotNil(t, comment.Author)
	assert.Equal(t, "reader", comment.Author.Username)

	notes := notificationsOf(t, db, author.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationComment, notes[0].Type)

	reply, err := svc.CreateComment(ctx, author.ID, CreateCommentInput{PostID: post.ID, Content: "ممنون", ParentID: comment.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, comment.ID, *reply.ParentID)
	assert.Len(t, notificationsOf(t, db, author.ID), 1, "no self notification")
}

func TestCommentService_CreateComment_Rejects(t *testing.T) {
	ctx := context.Background()
	svc, db := newCommentService(t)
	u := testutil.CreateUser(t, db, "u")
	post := testutil.CreatePost(t, db, u.ID, "one")
	other := testutil.CreatePost(t, db, u.ID, "two")
	foreign := testutil.CreateComment(t, db, other.ID, u.ID, "x", nil)

	_, err := svc.CreateComment(ctx, "", CreateCommentInput{PostID: post.ID, Content: "c"})
	assertAppError(t, err, models.CodeUnauthorized)

	_, err = svc.CreateComment(ctx, u.ID, CreateCommentInput{PostID: post.ID, Content: "   "})
	assertValidationError(t, err)

	_, err = svc.CreateComment(ctx, u.ID, CreateCommentInput{PostID: "missing", Content: "c"})
	assertAppError(t, err, models.CodeNotFound)

	_, err = svc.CreateComment(ctx, u.ID, CreateCommentInput{PostID: post.ID, Content: "c", ParentID: foreign.ID})
	assertValidationError(t, err)
}

func TestCommentService_ListComments(t *testing.T) {
	ctx := context.Background()
	svc, db := newCommentService(t)
	u := testutil.CreateUser(t, db, "u")
	post := testutil.CreatePost(t, db, u.ID, "post")
	root := testutil.CreateComment(t, db, post.ID, u.ID, "root", nil)
	testutil.CreateComment(t, db, post.ID, u.ID, "reply", &root.ID)

	_, err := svc.ListComments(ctx, "", 1, 10)
	assertValidationError(t, err)

	list, err := svc.ListComments(ctx, post.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Comments, 1)
	assert.Equal(t, int64(1), list.Comments[0].RepliesCount)
	assert.Len(t, list.Comments[0].Replies, 1)
	assert.Equal(t, int64(1), list.Pagination.Total)
}
