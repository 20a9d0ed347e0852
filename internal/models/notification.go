package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType discriminates how a notification is rendered.
type NotificationType string

const (
	NotificationLike              NotificationType = "like"
	NotificationComment           NotificationType = "comment"
	NotificationFollow            NotificationType = "follow"
	NotificationBookmark          NotificationType = "bookmark"
	NotificationMention           NotificationType = "mention"
	NotificationPublicationFollow NotificationType = "publication_follow"
)

// Notification is addressed to UserID and usually caused by ActorID.
type Notification struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"size:36;not null;index:idx_notifications_user_read" json:"userId"`
	ActorID   *string          `gorm:"size:36;index" json:"actorId,omitempty"`
	Actor     *User            `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL" json:"-"`
	Type      NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	PostID    *string          `gorm:"size:36;index" json:"postId,omitempty"`
	Post      *Post            `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Message   string           `gorm:"type:text" json:"message"`
	Read      bool             `gorm:"not null;default:false;index:idx_notifications_user_read" json:"read"`
	CreatedAt time.Time        `gorm:"index" json:"createdAt"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	assignID(&n.ID)
	return nil
}

// NotificationView is the rendered form returned by the listing endpoint.
type NotificationView struct {
	ID            string           `json:"id"`
	Type          NotificationType `json:"type"`
	Message       string           `json:"message"`
	Read          bool             `json:"read"`
	CreatedAt     time.Time        `json:"createdAt"`
	ActorID       *string          `json:"actorId,omitempty"`
	ActorName     string           `json:"actorName"`
	ActorUsername string           `json:"actorUsername"`
	ActorImage    string           `json:"actorImage,omitempty"`
	PostID        *string          `json:"postId,omitempty"`
	PostTitle     string           `json:"postTitle,omitempty"`
	PostSlug      string           `json:"postSlug,omitempty"`
}
