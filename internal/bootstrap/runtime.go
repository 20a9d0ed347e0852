// Package bootstrap wires the process-wide runtime: database, Redis and optional demo data.
package bootstrap

import (
	"fmt"
	"strings"

	"nashr/internal/cache"
	"nashr/internal/config"
	"nashr/internal/database"
	"nashr/internal/middleware"
	"nashr/internal/models"
	"nashr/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemo bool
}

// InitRuntime connects to DB and Redis and optionally seeds demo content.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemo {
		if err := seedDemo(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo content: %w", err)
		}
	}

	return db, r, nil
}

// seedDemo fills an empty development database; anything else is left alone.
func seedDemo(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil || !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.Info("demo seed skipped, database not empty", "users", users)
		return nil
	}

	sum, err := seed.NewSeeder(db, seed.Options{MaxDays: 60}).Run(seed.Config{
		NumUsers: 10,
		NumPosts: 40,
	})
	if err != nil {
		return err
	}
	middleware.Logger.Info("demo content seeded", "users", sum.Users, "posts", sum.Posts)
	return nil
}
