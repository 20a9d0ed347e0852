package service

import (
	"context"
	"strings"

	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/validation"
)

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type ContactList struct {
	Messages   []models.ContactMessage `json:"messages"`
	Pagination models.Pagination       `json:"pagination"`
}

// ContactService stores contact form submissions.
type ContactService struct {
	repo repository.ContactRepository
}

func NewContactService(repo repository.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
		Type:    strings.TrimSpace(in.Type),
	}
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return nil, models.NewValidationError("تمام فیلدها الزامی هستند")
	}
	if err := validation.ValidateEmail(msg.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, internal("خطا در ارسال پیام", err)
	}
	return msg, nil
}

func (s *ContactService) List(ctx context.Context, userID, status string, page, limit int) (*ContactList, error) {
	if userID == "" {
		return nil, ErrLoginRequired
	}
	msgs, total, err := s.repo.List(ctx, strings.TrimSpace(status), limit, pageOffset(page, limit))
	if err != nil {
		return nil, internal("خطا در دریافت پیام‌ها", err)
	}
	if msgs == nil {
		msgs = []models.ContactMessage{}
	}
	return &ContactList{Messages: msgs, Pagination: models.NewPagination(page, limit, total)}, nil
}
