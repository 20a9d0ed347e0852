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

func TestCommentRepository_ListTopLevel(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	post := testutil.CreatePost(t, db, author.ID, "عنوان", testutil.Published())

	older := &models.Comment{PostID: post.ID, AuthorID: reader.ID, Content: "قدیمی", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx, older))
	require.NotNil(t, older.Author)
	assert.Equal(t, "reader", older.Author.Username)

	newer := testutil.CreateComment(t, db, post.ID, author.ID, "جدید", nil)
	testutil.CreateComment(t, db, post.ID, author.ID, "پاسخ", &older.ID)

	comments, total, err := repo.ListTopLevel(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, comments, 2)
	assert.Equal(t, newer.ID, comments[0].ID)
	assert.Equal(t, older.ID, comments[1].ID)
	assert.Equal(t, int64(1), comments[1].RepliesCount)
	require.Len(t, comments[1].Replies, 1)
	require.NotNil(t, comments[1].Replies[0].Author)
	assert.Equal(t, "author", comments[1].Replies[0].Author.Username)

	page, _, err := repo.ListTopLevel(ctx, post.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)
}

func TestCommentRepository_ListByAuthorAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author.ID, "عنوان")
	c := testutil.CreateComment(t, db, post.ID, author.ID, "متن", nil)

	list, err := repo.ListByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Post)
	assert.Equal(t, "عنوان", list[0].Post.Title)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "متن", got.Content)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, IsNotFound(err))
}
