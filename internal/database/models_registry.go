package database

import "nashr/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for sqlite, which creates foreign keys inline.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Publication{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Bookmark{},
		&models.CommentLike{},
		&models.Follow{},
		&models.PublicationMember{},
		&models.PublicationFollower{},
		&models.Notification{},
		&models.ContactMessage{},
		&models.Image{},
	}
}
