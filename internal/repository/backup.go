package repository

import (
	"context"

	"nashr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RestoreRepository writes backup records one at a time. Each call is its own
// statement; a failure affects only that record.
type RestoreRepository interface {
	InsertPost(ctx context.Context, post *models.Post) error
	InsertBookmark(ctx context.Context, bookmark *models.Bookmark) error
	InsertLike(ctx context.Context, like *models.Like) error
	InsertComment(ctx context.Context, comment *models.Comment) error
}

type restoreRepository struct {
	db *gorm.DB
}

// NewRestoreRepository creates a RestoreRepository.
func NewRestoreRepository(db *gorm.DB) RestoreRepository {
	return &restoreRepository{db: db}
}

func (r *restoreRepository) insert(ctx context.Context, record any) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
	if isUniqueConstraintError(err) {
		return ErrAlreadyExists
	}
	return err
}

func (r *restoreRepository) InsertPost(ctx context.Context, post *models.Post) error {
	return r.insert(ctx, post)
}

func (r *restoreRepository) InsertBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	return r.insert(ctx, bookmark)
}

func (r *restoreRepository) InsertLike(ctx context.Context, like *models.Like) error {
	return r.insert(ctx, like)
}

func (r *restoreRepository) InsertComment(ctx context.Context, comment *models.Comment) error {
	return r.insert(ctx, comment)
}
