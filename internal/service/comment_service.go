package service

import (
	"context"
	"strings"

	"nashr/internal/models"
	"nashr/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	notify      *NotificationService
}

type CreateCommentInput struct {
	PostID   string `json:"postId"`
	Content  string `json:"content"`
	ParentID string `json:"parentId"`
}

// CommentList is one page of top-level comments.
type CommentList struct {
	Comments   []models.Comment  `json:"comments"`
	Pagination models.Pagination `json:"pagination"`
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notify *NotificationService,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		notify:      notify,
	}
}

func (s *CommentService) ListComments(ctx context.Context, postID string, page, limit int) (*CommentList, error) {
	if postID == "" {
		return nil, models.NewValidationError("شناسه مقاله الزامی است")
	}
	comments, total, err := s.commentRepo.ListTopLevel(ctx, postID, limit, pageOffset(page, limit))
	if err != nil {
		return nil, internal("خطا در دریافت کامنت‌ها", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return &CommentList{Comments: comments, Pagination: models.NewPagination(page, limit, total)}, nil
}

func (s *CommentService) CreateComment(ctx context.Context, authorID string, in CreateCommentInput) (*models.Comment, error) {
	if authorID == "" {
		return nil, models.NewUnauthorizedError("برای ارسال کامنت باید وارد شوید")
	}
	content := strings.TrimSpace(in.Content)
	if in.PostID == "" || content == "" {
		return nil, models.NewValidationError("محتوا و شناسه مقاله الزامی هستند")
	}

	post, err := s.postRepo.GetPlain(ctx, in.PostID)
	if err != nil {
		return nil, internal("خطا در ایجاد کامنت", notFound(err, msgPostNotFound))
	}

	comment := &models.Comment{
		Content:  content,
		PostID:   post.ID,
		AuthorID: authorID,
	}
	if in.ParentID != "" {
		parent, err := s.commentRepo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, internal("خطا در ایجاد کامنت", notFound(err, "کامنت والد یافت نشد"))
		}
		if parent.PostID != post.ID {
			return nil, models.NewValidationError("کامنت والد متعلق به این مقاله نیست")
		}
		comment.ParentID = &parent.ID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, internal("خطا در ایجاد کامنت", err)
	}

	s.notify.Notify(ctx, NotifyInput{
		RecipientID: post.AuthorID,
		ActorID:     authorID,
		Type:        models.NotificationComment,
		PostID:      post.ID,
	})
	return comment, nil
}
