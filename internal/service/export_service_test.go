package service

import (
	"context"
	"strings"
	"testing"

	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := NewExportService(repository.NewPostRepository(db))
	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")
	pub := testutil.CreatePost(t, db, owner.ID, "عمومی", testutil.Published())
	draft := testutil.CreatePost(t, db, owner.ID, "پیش‌نویس")
	testutil.CreateComment(t, db, pub.ID, other.ID, "نظر خوب", nil)

	t.Run("all posts as csv", func(t *testing.T) {
		doc, err := svc.Export(ctx, owner.ID, "csv", "")
		require.NoError(t, err)
		assert.Equal(t, "posts-"+owner.ID+".csv", doc.Filename)
		assert.Equal(t, "text/csv", doc.ContentType)
		lines := strings.Split(string(doc.Body), "\n")
		assert.Len(t, lines, 3)
		assert.Contains(t, lines[0], ",subtitle,")
		assert.Contains(t, lines[0], ",tags,")
	})

	t.Run("single post as markdown", func(t *testing.T) {
		doc, err := svc.Export(ctx, other.ID, "markdown", pub.ID)
		require.NoError(t, err)
		assert.Equal(t, "post-"+pub.ID+".md", doc.Filename)
		body := string(doc.Body)
		assert.True(t, strings.HasPrefix(body, "# عمومی"))
		assert.Contains(t, body, "## نظرات")
		assert.Contains(t, body, "نظر خوب")
	})

	t.Run("pdf degrades to markdown", func(t *testing.T) {
		doc, err := svc.Export(ctx, owner.ID, "pdf", pub.ID)
		require.NoError(t, err)
		assert.Equal(t, "text/markdown", doc.ContentType)
		assert.True(t, strings.HasSuffix(doc.Filename, ".md"))
	})

	t.Run("draft of someone else is not found", func(t *testing.T) {
		_, err := svc.Export(ctx, other.ID, "json", draft.ID)
		appErr := assertAppError(t, err, models.CodeNotFound)
		assert.Equal(t, "مقاله یافت نشد", appErr.Message)

		doc, err := svc.Export(ctx, owner.ID, "json", draft.ID)
		require.NoError(t, err)
		assert.Equal(t, "application/json", doc.ContentType)
	})

	t.Run("rejects", func(t *testing.T) {
		_, err := svc.Export(ctx, owner.ID, "docx", "")
		assertValidationError(t, err)
		_, err = svc.Export(ctx, "", "json", "")
		assertAppError(t, err, models.CodeUnauthorized)
	})
}
