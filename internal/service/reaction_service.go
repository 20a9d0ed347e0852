package service

import (
	"context"

	"nashr/internal/models"
	"nashr/internal/observability"
	"nashr/internal/repository"
)

// Toggle relation names, as reported in metrics.
const (
	relationLike        = "like"
	relationBookmark    = "bookmark"
	relationCommentLike = "comment_like"
	relationFollow      = "follow"
)

// ReactionService flips likes, bookmarks and comment likes for the caller.
type ReactionService struct {
	reactions   repository.ReactionRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	notify      *NotificationService
}

func NewReactionService(
	reactions repository.ReactionRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	notify *NotificationService,
) *ReactionService {
	return &ReactionService{
		reactions:   reactions,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		notify:      notify,
	}
}

func recordToggle(relation string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	observability.ToggleTotal.WithLabelValues(relation, state).Inc()
}

// targetPost loads the post a reaction points at.
func (s *ReactionService) targetPost(ctx context.Context, postID, failure string) (*models.Post, error) {
	if postID == "" {
		return nil, models.NewValidationError("شناسه مقاله الزامی است")
	}
	post, err := s.postRepo.GetPlain(ctx, postID)
	if err != nil {
		return nil, internal(failure, notFound(err, msgPostNotFound))
	}
	return post, nil
}

// ToggleLike returns whether the caller likes the post afterwards.
func (s *ReactionService) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	const failure = "خطا در لایک کردن مقاله"
	if userID == "" {
		return false, models.NewUnauthorizedError("برای لایک کردن باید وارد شوید")
	}
	post, err := s.targetPost(ctx, postID, failure)
	if err != nil {
		return false, err
	}

	liked, err := s.reactions.ToggleLike(ctx, userID, post.ID)
	if err != nil {
		return false, internal(failure, err)
	}
	recordToggle(relationLike, liked)
	if liked {
		s.notify.Notify(ctx, NotifyInput{
			RecipientID: post.AuthorID,
			ActorID:     userID,
			Type:        models.NotificationLike,
			PostID:      post.ID,
		})
	}
	return liked, nil
}

// ToggleBookmark returns whether the post is bookmarked afterwards.
func (s *ReactionService) ToggleBookmark(ctx context.Context, userID, postID string) (bool, error) {
	const failure = "خطا در نشان کردن مقاله"
	if userID == "" {
		return false, models.NewUnauthorizedError("برای نشان کردن باید وارد شوید")
	}
	post, err := s.targetPost(ctx, postID, failure)
	if err != nil {
		return false, err
	}

	marked, err := s.reactions.ToggleBookmark(ctx, userID, post.ID)
	if err != nil {
		return false, internal(failure, err)
	}
	recordToggle(relationBookmark, marked)
	if marked {
		s.notify.Notify(ctx, NotifyInput{
			RecipientID: post.AuthorID,
			ActorID:     userID,
			Type:        models.NotificationBookmark,
			PostID:      post.ID,
		})
	}
	return marked, nil
}

// ToggleCommentLike returns the new state and the comment's like counter.
func (s *ReactionService) ToggleCommentLike(ctx context.Context, userID, commentID string) (bool, int, error) {
	const failure = "خطا در لایک کردن کامنت"
	if userID == "" {
		return false, 0, models.NewUnauthorizedError("برای لایک کردن باید وارد شوید")
	}
	if commentID == "" {
		return false, 0, models.NewValidationError("شناسه کامنت الزامی است")
	}
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return false, 0, internal(failure, notFound(err, "کامنت یافت نشد"))
	}

	liked, likes, err := s.reactions.ToggleCommentLike(ctx, userID, commentID)
	if err != nil {
		return false, 0, internal(failure, err)
	}
	recordToggle(relationCommentLike, liked)
	return liked, likes, nil
}

func (s *ReactionService) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	ok, err := s.reactions.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, internal("خطا در دریافت لایک‌ها", err)
	}
	return ok, nil
}

func (s *ReactionService) IsBookmarked(ctx context.Context, userID, postID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	ok, err := s.reactions.IsBookmarked(ctx, userID, postID)
	if err != nil {
		return false, internal("خطا در دریافت نشان‌شده‌ها", err)
	}
	return ok, nil
}

// LikedPosts is empty for anonymous callers.
func (s *ReactionService) LikedPosts(ctx context.Context, userID string) ([]models.Like, error) {
	if userID == "" {
		return []models.Like{}, nil
	}
	likes, err := s.reactions.LikedPosts(ctx, userID)
	if err != nil {
		return nil, internal("خطا در دریافت لایک‌ها", err)
	}
	if likes == nil {
		likes = []models.Like{}
	}
	return likes, nil
}

// BookmarkedPosts is empty for anonymous callers.
func (s *ReactionService) BookmarkedPosts(ctx context.Context, userID string) ([]models.Bookmark, error) {
	if userID == "" {
		return []models.Bookmark{}, nil
	}
	marks, err := s.reactions.BookmarkedPosts(ctx, userID)
	if err != nil {
		return nil, internal("خطا در دریافت نشان‌شده‌ها", err)
	}
	if marks == nil {
		marks = []models.Bookmark{}
	}
	return marks, nil
}
