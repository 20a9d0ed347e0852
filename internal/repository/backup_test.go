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

func TestRestoreRepository_KeepsIDsAndReportsDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRestoreRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "owner")

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	post := &models.Post{ID: "post-1", Title: "بازگردانی", Content: "متن", AuthorID: user.ID, Views: 7, CreatedAt: created}
	require.NoError(t, repo.InsertPost(ctx, post))

	got, err := NewPostRepository(db).GetPlain(ctx, "post-1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Views)
	assert.True(t, got.CreatedAt.Equal(created))

	again := &models.Post{ID: "post-1", Title: "تکراری", Content: "متن", AuthorID: user.ID}
	assert.ErrorIs(t, repo.InsertPost(ctx, again), ErrAlreadyExists)

	require.NoError(t, repo.InsertLike(ctx, &models.Like{UserID: user.ID, PostID: "post-1"}))
	assert.ErrorIs(t, repo.InsertLike(ctx, &models.Like{UserID: user.ID, PostID: "post-1"}), ErrAlreadyExists)

	require.NoError(t, repo.InsertBookmark(ctx, &models.Bookmark{UserID: user.ID, PostID: "post-1"}))
	require.NoError(t, repo.InsertComment(ctx, &models.Comment{ID: "c-1", PostID: "post-1", AuthorID: user.ID, Content: "نظر", Likes: 3}))

	err = repo.InsertComment(ctx, &models.Comment{PostID: "missing-post", AuthorID: user.ID, Content: "یتیم"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyExists)
}

func TestContactRepository_ListByStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()

	msg := &models.ContactMessage{Name: "مینا", Email: "mina@example.com", Subject: "سلام", Message: "پیام"}
	require.NoError(t, repo.Create(ctx, msg))
	assert.Equal(t, "pending", msg.Status)
	assert.Equal(t, "general", msg.Type)

	pending, total, err := repo.List(ctx, "pending", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, pending, 1)

	_, total, err = repo.List(ctx, "resolved", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = repo.List(ctx, "all", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
