package repository

import (
	"context"

	"nashr/internal/models"

	"gorm.io/gorm"
)

// ContactRepository stores contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	List(ctx context.Context, status string, limit, offset int) ([]models.ContactMessage, int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a ContactRepository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// List filters by status unless it is empty or "all".
func (r *contactRepository) List(ctx context.Context, status string, limit, offset int) ([]models.ContactMessage, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if status != "" && status != "all" {
		base = base.Where("status = ?", status)
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var msgs []models.ContactMessage
	err := base.Order("created_at DESC").Limit(limit).Offset(offset).Find(&msgs).Error
	return msgs, total, err
}
