package repository

import (
	"context"
	"fmt"

	"nashr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository flips per-user relations (likes, bookmarks, comment likes).
// Every toggle is a conditional DELETE followed, when nothing was deleted, by an
// INSERT ... ON CONFLICT DO NOTHING; the unique pair index decides races.
type ReactionRepository interface {
	ToggleLike(ctx context.Context, userID, postID string) (bool, error)
	ToggleBookmark(ctx context.Context, userID, postID string) (bool, error)
	ToggleCommentLike(ctx context.Context, userID, commentID string) (liked bool, likes int, err error)
	IsLiked(ctx context.Context, userID, postID string) (bool, error)
	IsBookmarked(ctx context.Context, userID, postID string) (bool, error)
	LikedPosts(ctx context.Context, userID string) ([]models.Like, error)
	BookmarkedPosts(ctx context.Context, userID string) ([]models.Bookmark, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a ReactionRepository.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// toggle removes the row matching where; if none existed it inserts row.
// It returns the resulting state and whether this call changed it.
func toggle(tx *gorm.DB, row any, where string, args ...any) (present bool, changed bool, err error) {
	del := tx.Where(where, args...).Delete(row)
	if del.Error != nil {
		return false, false, del.Error
	}
	if del.RowsAffected > 0 {
		return false, true, nil
	}

	ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if ins.Error != nil {
		return false, false, ins.Error
	}
	// RowsAffected == 0 means a concurrent request inserted the same pair first.
	return true, ins.RowsAffected > 0, nil
}

func (r *reactionRepository) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	liked, _, err := toggle(r.db.WithContext(ctx), &models.Like{UserID: userID, PostID: postID},
		"user_id = ? AND post_id = ?", userID, postID)
	if err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}
	return liked, nil
}

func (r *reactionRepository) ToggleBookmark(ctx context.Context, userID, postID string) (bool, error) {
	marked, _, err := toggle(r.db.WithContext(ctx), &models.Bookmark{UserID: userID, PostID: postID},
		"user_id = ? AND post_id = ?", userID, postID)
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}
	return marked, nil
}

// ToggleCommentLike flips the join row and moves comments.likes in the same transaction,
// only when the join write actually changed a row.
func (r *reactionRepository) ToggleCommentLike(ctx context.Context, userID, commentID string) (bool, int, error) {
	var (
		liked bool
		likes int
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		present, changed, err := toggle(tx, &models.CommentLike{UserID: userID, CommentID: commentID},
			"user_id = ? AND comment_id = ?", userID, commentID)
		if err != nil {
			return err
		}
		liked = present

		if changed {
			delta := "likes - 1"
			if present {
				delta = "likes + 1"
			}
			if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
				UpdateColumn("likes", gorm.Expr(delta)).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			Select("likes").Scan(&likes).Error
	})
	if err != nil {
		return false, 0, fmt.Errorf("toggle comment like: %w", err)
	}
	return liked, likes, nil
}

func (r *reactionRepository) exists(ctx context.Context, model any, where string, args ...any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where(where, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reactionRepository) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	return r.exists(ctx, &models.Like{}, "user_id = ? AND post_id = ?", userID, postID)
}

func (r *reactionRepository) IsBookmarked(ctx context.Context, userID, postID string) (bool, error) {
	return r.exists(ctx, &models.Bookmark{}, "user_id = ? AND post_id = ?", userID, postID)
}

// LikedPosts returns the caller's likes with post and author, newest like first.
func (r *reactionRepository) LikedPosts(ctx context.Context, userID string) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.Author", models.PublicUser).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, fmt.Errorf("liked posts: %w", err)
	}
	return likes, nil
}

// BookmarkedPosts returns the caller's bookmarks with post, author and counts.
func (r *reactionRepository) BookmarkedPosts(ctx context.Context, userID string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Post", withPostCounts).
		Preload("Post.Author", models.PublicUser).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, fmt.Errorf("bookmarked posts: %w", err)
	}
	return bookmarks, nil
}
