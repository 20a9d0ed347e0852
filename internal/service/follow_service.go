package service

import (
	"context"
	"errors"

	"nashr/internal/models"
	"nashr/internal/repository"
)

const msgUserNotFound = "کاربر یافت نشد"

// FollowService manages user-to-user follows.
type FollowService struct {
	follows  repository.FollowRepository
	userRepo repository.UserRepository
	notify   *NotificationService
}

func NewFollowService(follows repository.FollowRepository, userRepo repository.UserRepository, notify *NotificationService) *FollowService {
	return &FollowService{follows: follows, userRepo: userRepo, notify: notify}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	const failure = "خطا در دنبال کردن کاربر"
	if followerID == "" {
		return nil, models.NewUnauthorizedError("برای دنبال کردن باید وارد شوید")
	}
	if followingID == "" {
		return nil, models.NewValidationError("شناسه کاربر مورد نظر الزامی است")
	}
	if followingID == followerID {
		return nil, models.NewValidationError("نمی‌توانید خودتان را دنبال کنید")
	}
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		return nil, internal(failure, notFound(err, msgUserNotFound))
	}

	follow, err := s.follows.Follow(ctx, followerID, followingID)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, models.NewConflictError("شما قبلاً این کاربر را دنبال می‌کنید")
	}
	if err != nil {
		return nil, internal(failure, err)
	}
	recordToggle(relationFollow, true)

	s.notify.Notify(ctx, NotifyInput{
		RecipientID: followingID,
		ActorID:     followerID,
		Type:        models.NotificationFollow,
	})
	return follow, nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" {
		return models.NewUnauthorizedError("برای لغو دنبال کردن باید وارد شوید")
	}
	if followingID == "" {
		return models.NewValidationError("شناسه کاربر مورد نظر الزامی است")
	}
	removed, err := s.follows.Unfollow(ctx, followerID, followingID)
	if err != nil {
		return internal("خطا در لغو دنبال کردن کاربر", err)
	}
	if !removed {
		return models.NewNotFoundError("شما این کاربر را دنبال نمی‌کنید")
	}
	recordToggle(relationFollow, false)
	return nil
}

// IsFollowing is false for anonymous callers.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" {
		return false, nil
	}
	if followingID == "" {
		return false, models.NewValidationError("شناسه کاربر مورد نظر الزامی است")
	}
	ok, err := s.follows.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return false, internal("خطا در بررسی وضعیت دنبال کردن", err)
	}
	return ok, nil
}
