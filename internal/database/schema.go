package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Statements that gorm tags cannot express. Each must be valid on postgres and sqlite.
var schemaExtras = []string{
	`CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications (user_id) WHERE read = false`,
	`CREATE INDEX IF NOT EXISTS idx_posts_published_created ON posts (published, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post_parent ON comments (post_id, parent_id)`,
}

// Migrate creates or updates every persistent table and the extra indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	for _, stmt := range schemaExtras {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply schema statement %q: %w", stmt, err)
		}
	}
	return nil
}
