package models

import (
	"time"

	"gorm.io/gorm"
)

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_likes_user_post" json:"userId"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_likes_user_post;index" json:"postId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *Like) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}

// Bookmark is a saved post. Same uniqueness rule as Like.
type Bookmark struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_bookmarks_user_post" json:"userId"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_bookmarks_user_post;index" json:"postId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b *Bookmark) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}

// Follow is a directed user-to-user subscription. Self follows are rejected by the service.
type Follow struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	FollowerID  string    `gorm:"size:36;not null;uniqueIndex:idx_follows_pair" json:"followerId"`
	FollowingID string    `gorm:"size:36;not null;uniqueIndex:idx_follows_pair;index" json:"followingId"`
	Follower    *User     `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"follower,omitempty"`
	Following   *User     `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"following,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (f *Follow) BeforeCreate(*gorm.DB) error {
	assignID(&f.ID)
	return nil
}
