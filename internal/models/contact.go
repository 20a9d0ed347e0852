package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Subject   string    `gorm:"not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:32;not null;default:'general'" json:"type"`
	Status    string    `gorm:"size:32;not null;default:'pending';index" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (m *ContactMessage) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	if m.Type == "" {
		m.Type = "general"
	}
	if m.Status == "" {
		m.Status = "pending"
	}
	return nil
}
