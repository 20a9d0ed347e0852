package repository

import (
	"context"
	"fmt"

	"nashr/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListTopLevel(ctx context.Context, postID string, limit, offset int) ([]models.Comment, int64, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	var author models.User
	if err := models.PublicUser(r.db.WithContext(ctx)).Where("id = ?", comment.AuthorID).First(&author).Error; err != nil {
		return fmt.Errorf("load comment author: %w", err)
	}
	comment.Author = &author
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, fmt.Errorf("get comment %s: %w", id, err)
	}
	return &comment, nil
}

// ListTopLevel returns top-level comments of a post, newest first, with replies and reply counts.
func (r *commentRepository) ListTopLevel(ctx context.Context, postID string, limit, offset int) ([]models.Comment, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("comments.post_id = ? AND comments.parent_id IS NULL", postID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	var comments []models.Comment
	err := base.
		Select("comments.*, (SELECT COUNT(*) FROM comments AS r WHERE r.parent_id = comments.id) AS replies_count").
		Preload("Author", models.PublicUser).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.Author", models.PublicUser).
		Order("comments.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

// ListByAuthor returns every comment written by authorID with its post title.
func (r *commentRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Post", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "created_at")
		}).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments of %s: %w", authorID, err)
	}
	return comments, nil
}
