package repository

import (
	"context"
	"fmt"

	"nashr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository manages user-to-user follows.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followingID string) (*models.Follow, error)
	Unfollow(ctx context.Context, followerID, followingID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]models.Follow, error)
	Following(ctx context.Context, userID string) ([]models.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a FollowRepository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow inserts the pair; ErrAlreadyExists when it was already present.
func (r *followRepository) Follow(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	f := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return nil, fmt.Errorf("follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyExists
	}
	return f, nil
}

// Unfollow reports whether a row was removed.
func (r *followRepository) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, fmt.Errorf("unfollow: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// Followers lists who follows userID, newest first.
func (r *followRepository) Followers(ctx context.Context, userID string) ([]models.Follow, error) {
	var rows []models.Follow
	err := r.db.WithContext(ctx).
		Preload("Follower", models.PublicUser).
		Where("following_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Following lists who userID follows, newest first.
func (r *followRepository) Following(ctx context.Context, userID string) ([]models.Follow, error) {
	var rows []models.Follow
	err := r.db.WithContext(ctx).
		Preload("Following", models.PublicUser).
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
