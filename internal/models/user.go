package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account on the platform. Credentials and reset state never leave the server.
type User struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Name             string     `gorm:"size:120" json:"name"`
	Username         string     `gorm:"size:60;uniqueIndex;not null" json:"username"`
	Email            string     `gorm:"size:255;uniqueIndex;not null" json:"email,omitempty"`
	Password         string     `gorm:"not null" json:"-"`
	Bio              string     `gorm:"type:text" json:"bio,omitempty"`
	Image            string     `json:"image,omitempty"`
	ResetToken       *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	// Computed by listing queries, never stored.
	PostsCount     int64 `gorm:"->;-:migration" json:"postsCount,omitempty"`
	FollowersCount int64 `gorm:"->;-:migration" json:"followersCount,omitempty"`
	FollowingCount int64 `gorm:"->;-:migration" json:"followingCount,omitempty"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// PublicUserColumns is the projection used wherever a user is embedded in another resource.
var PublicUserColumns = []string{"id", "name", "username", "image", "bio"}

// PublicUser limits a preload to the public profile columns.
func PublicUser(db *gorm.DB) *gorm.DB {
	return db.Select(PublicUserColumns)
}
