package repository

import (
	"context"
	"fmt"
	"time"

	"nashr/internal/models"

	"gorm.io/gorm"
)

// AuthorTotals are the lifetime numbers of one author.
type AuthorTotals struct {
	Views          int64 `json:"totalViews"`
	Likes          int64 `json:"totalLikes"`
	Bookmarks      int64 `json:"totalBookmarks"`
	Posts          int64 `json:"totalPosts"`
	Followers      int64 `json:"totalFollowers"`
	Following      int64 `json:"totalFollowing"`
	PublishedPosts int64 `json:"-"`
	PublishedViews int64 `json:"-"`
}

// TopPost is one entry of an author's most viewed posts.
type TopPost struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int64  `json:"views"`
	Likes int64  `json:"likes"`
}

// PostViews is the creation time and view count of one post.
type PostViews struct {
	CreatedAt time.Time
	Views     int64
}

// StatsRepository runs the aggregate queries behind profile and dashboard stats.
type StatsRepository interface {
	AuthorTotals(ctx context.Context, userID string) (*AuthorTotals, error)
	TopPosts(ctx context.Context, userID string, limit int) ([]TopPost, error)
	ViewsSince(ctx context.Context, userID string, since time.Time) ([]PostViews, error)
	Profile(ctx context.Context, username string) (*models.User, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a StatsRepository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// AuthorTotals computes every total in one round trip.
func (r *statsRepository) AuthorTotals(ctx context.Context, userID string) (*AuthorTotals, error) {
	var t AuthorTotals
	err := r.db.WithContext(ctx).Raw(`
SELECT
	(SELECT COALESCE(SUM(views), 0) FROM posts WHERE author_id = @uid) AS views,
	(SELECT COUNT(*) FROM likes JOIN posts ON posts.id = likes.post_id WHERE posts.author_id = @uid) AS likes,
	(SELECT COUNT(*) FROM bookmarks JOIN posts ON posts.id = bookmarks.post_id WHERE posts.author_id = @uid) AS bookmarks,
	(SELECT COUNT(*) FROM posts WHERE author_id = @uid) AS posts,
	(SELECT COUNT(*) FROM follows WHERE following_id = @uid) AS followers,
	(SELECT COUNT(*) FROM follows WHERE follower_id = @uid) AS following,
	(SELECT COUNT(*) FROM posts WHERE author_id = @uid AND published = @pub) AS published_posts,
	(SELECT COALESCE(SUM(views), 0) FROM posts WHERE author_id = @uid AND published = @pub) AS published_views
`, map[string]any{"uid": userID, "pub": true}).Scan(&t).Error
	if err != nil {
		return nil, fmt.Errorf("author totals: %w", err)
	}
	return &t, nil
}

func (r *statsRepository) TopPosts(ctx context.Context, userID string, limit int) ([]TopPost, error) {
	var top []TopPost
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("posts.id, posts.title, posts.views, (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes").
		Where("posts.author_id = ?", userID).
		Order("posts.views DESC").
		Limit(limit).
		Scan(&top).Error
	if err != nil {
		return nil, fmt.Errorf("top posts: %w", err)
	}
	return top, nil
}

func (r *statsRepository) ViewsSince(ctx context.Context, userID string, since time.Time) ([]PostViews, error) {
	var rows []PostViews
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("created_at, views").
		Where("author_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// Profile loads the public profile with published post, follower and following counts.
func (r *statsRepository) Profile(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select(userCountsSelect, true).
		Where("users.username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", username, err)
	}
	return &user, nil
}
