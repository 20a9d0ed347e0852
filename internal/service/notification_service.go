package service

import (
	"context"
	"strings"

	"nashr/internal/middleware"
	"nashr/internal/models"
	"nashr/internal/notifications"
	"nashr/internal/repository"
)

const msgNotificationNotFound = "اطلاع‌رسانی یافت نشد"

// NotificationService stores notifications and pushes them to live subscribers.
type NotificationService struct {
	repo     repository.NotificationRepository
	notifier *notifications.Notifier
}

// NotifyInput describes a notification caused by ActorID and addressed to RecipientID.
type NotifyInput struct {
	RecipientID string
	ActorID     string
	Type        models.NotificationType
	PostID      string
	Message     string
}

// CreateNotificationInput is the body of POST /api/notifications.
type CreateNotificationInput struct {
	UserID  string                  `json:"userId"`
	Type    models.NotificationType `json:"type"`
	Message string                  `json:"message"`
	PostID  string                  `json:"postId"`
}

// NotificationList is one page of rendered notifications.
type NotificationList struct {
	Notifications []models.NotificationView `json:"notifications"`
	UnreadCount   int64                     `json:"unreadCount"`
	Pagination    models.Pagination         `json:"pagination"`
}

// NewNotificationService accepts a nil notifier; notifications are then only stored.
func NewNotificationService(repo repository.NotificationRepository, notifier *notifications.Notifier) *NotificationService {
	return &NotificationService{repo: repo, notifier: notifier}
}

func (s *NotificationService) create(ctx context.Context, in NotifyInput) (*models.NotificationView, error) {
	n := &models.Notification{
		UserID:  in.RecipientID,
		Type:    in.Type,
		Message: in.Message,
	}
	if in.ActorID != "" {
		n.ActorID = &in.ActorID
	}
	if in.PostID != "" {
		n.PostID = &in.PostID
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	view := notifications.View(*n)
	s.notifier.Publish(ctx, in.RecipientID, notifications.NewEvent(view))
	return &view, nil
}

// Notify records a side-effect notification. Self notifications are skipped and
// failures are only logged so the triggering action still succeeds.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) {
	if s == nil || in.RecipientID == "" || in.RecipientID == in.ActorID {
		return
	}
	if _, err := s.create(ctx, in); err != nil {
		middleware.Logger.WarnContext(ctx, "create notification failed",
			"type", in.Type, "recipient", in.RecipientID, "error", err)
	}
}

// Create stores a notification requested through the API, with the caller as actor.
func (s *NotificationService) Create(ctx context.Context, actorID string, in CreateNotificationInput) (*models.NotificationView, error) {
	if actorID == "" {
		return nil, models.NewUnauthorizedError("برای ایجاد اطلاع‌رسانی باید وارد شوید")
	}
	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" || in.Type == "" {
		return nil, models.NewValidationError("شناسه کاربر و نوع اطلاع‌رسانی الزامی هستند")
	}
	if in.UserID == actorID {
		return nil, models.NewValidationError("نمی‌توان برای خود اطلاع‌رسانی ایجاد کرد")
	}

	view, err := s.create(ctx, NotifyInput{
		RecipientID: in.UserID,
		ActorID:     actorID,
		Type:        in.Type,
		PostID:      strings.TrimSpace(in.PostID),
		Message:     strings.TrimSpace(in.Message),
	})
	if err != nil {
		return nil, internal("خطا در ایجاد اطلاع‌رسانی", err)
	}
	return view, nil
}

// List renders one page of the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, page, limit int, unreadOnly bool) (*NotificationList, error) {
	if userID == "" {
		return nil, models.NewUnauthorizedError("برای دریافت اطلاع‌رسانی باید وارد شوید")
	}
	items, total, err := s.repo.List(ctx, userID, unreadOnly, limit, pageOffset(page, limit))
	if err != nil {
		return nil, internal("خطا در دریافت اطلاع‌رسانی", err)
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, internal("خطا در دریافت اطلاع‌رسانی", err)
	}

	views := make([]models.NotificationView, 0, len(items))
	for _, n := range items {
		views = append(views, notifications.View(n))
	}
	return &NotificationList{
		Notifications: views,
		UnreadCount:   unread,
		Pagination:    models.NewPagination(page, limit, total),
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	ok, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return internal("خطا در به‌روزرسانی اطلاع‌رسانی", err)
	}
	if !ok {
		return models.NewNotFoundError(msgNotificationNotFound)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, internal("خطا در به‌روزرسانی اطلاع‌رسانی", err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return internal("خطا در حذف اطلاع‌رسانی", err)
	}
	if !ok {
		return models.NewNotFoundError(msgNotificationNotFound)
	}
	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, internal("خطا در حذف اطلاع‌رسانی", err)
	}
	return n, nil
}
