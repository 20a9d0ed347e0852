// Package testutil provides shared test databases, fixtures and doubles.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"nashr/internal/database"
	"nashr/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with the full schema.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user whose email and username derive from name.
func CreateUser(t testing.TB, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{
		Name:     name,
		Username: name,
		Email:    name + "@example.com",
		Password: "$2a$10$abcdefghijklmnopqrstuu3bU0y0fZcW7m3T1ZDmD0e6Pv1xKFq2S",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// PostOption customises CreatePost.
type PostOption func(*models.Post)

// Published marks the post as published.
func Published() PostOption {
	return func(p *models.Post) { p.Published = true }
}

// WithTags stores a raw tag column.
func WithTags(raw string) PostOption {
	return func(p *models.Post) { p.Tags = raw }
}

// WithViews sets the view counter.
func WithViews(n int) PostOption {
	return func(p *models.Post) { p.Views = n }
}

// CreatedAt backdates the post.
func CreatedAt(ts time.Time) PostOption {
	return func(p *models.Post) { p.CreatedAt = ts }
}

// CreatePost inserts a post by authorID.
func CreatePost(t testing.TB, db *gorm.DB, authorID, title string, opts ...PostOption) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:    title,
		Content:  "متن " + title,
		AuthorID: authorID,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateComment inserts a comment on postID.
func CreateComment(t testing.TB, db *gorm.DB, postID, authorID, content string, parentID *string) *models.Comment {
	t.Helper()
	c := &models.Comment{PostID: postID, AuthorID: authorID, Content: content, ParentID: parentID}
	require.NoError(t, db.Create(c).Error)
	return c
}
