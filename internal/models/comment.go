package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to a post and optionally replies to another comment.
// Likes is kept in step with the comment_likes rows inside one transaction.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PostID    string    `gorm:"size:36;not null;index" json:"postId"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	AuthorID  string    `gorm:"size:36;not null;index" json:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	ParentID  *string   `gorm:"size:36;index" json:"parentId,omitempty"`
	Replies   []Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	RepliesCount int64 `gorm:"->;-:migration" json:"repliesCount"`
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// CommentLike marks a user's like on a comment. One row per (user, comment).
type CommentLike struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_comment_likes_user_comment" json:"userId"`
	CommentID string    `gorm:"size:36;not null;uniqueIndex:idx_comment_likes_user_comment" json:"commentId"`
	Comment   *Comment  `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *CommentLike) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}
