package repository

import (
	"context"
	"fmt"
	"strings"

	"nashr/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing. Zero values mean "no constraint".
type PostFilter struct {
	Published *bool
	Featured  bool
	AuthorID  string
	// AnyTags keeps posts whose tag column contains at least one of the values.
	AnyTags []string
	Query   string
	Topic   string
	// Author matches the author's name or username.
	Author string
	Sort   string
	Limit  int
	Offset int
}

// Sort orders accepted by PostFilter.
const (
	SortRelevance = "relevance"
	SortDate      = "date"
	SortViews     = "views"
	SortLikes     = "likes"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetPlain(ctx context.Context, id string) (*models.Post, error)
	GetForExport(ctx context.Context, id, viewerID string) (*models.Post, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	PublishedTagColumns(ctx context.Context, contains string) ([]string, error)
	LatestPublished(ctx context.Context, limit int) ([]models.Post, error)
	PublishedSummaries(ctx context.Context) ([]models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postCountsSelect = "posts.*, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count, " +
	"(SELECT COUNT(*) FROM bookmarks WHERE bookmarks.post_id = posts.id) AS bookmarks_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count"

// withPostCounts adds the like/bookmark/comment subqueries in a single query.
func withPostCounts(db *gorm.DB) *gorm.DB {
	return db.Select(postCountsSelect)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// GetByID loads a post with its author's public profile and counts.
func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := withPostCounts(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("Author", models.PublicUser).
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return &post, nil
}

// GetPlain loads only the post row, for ownership checks.
func (r *postRepository) GetPlain(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return &post, nil
}

// GetForExport loads a post visible to viewerID (own or published) with comments oldest first.
func (r *postRepository) GetForExport(ctx context.Context, id, viewerID string) (*models.Post, error) {
	var post models.Post
	err := withPostCounts(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "username", "email")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author", models.PublicUser).
		Where("posts.id = ? AND (posts.author_id = ? OR posts.published = ?)", id, viewerID, true).
		First(&post).Error
	if err != nil {
		return nil, fmt.Errorf("export post %s: %w", id, err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update post %s: %w", id, err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return fmt.Errorf("delete post %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete post %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// IncrementViews bumps the counter without touching updated_at.
func (r *postRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *postRepository) applyFilter(db *gorm.DB, f PostFilter) *gorm.DB {
	if f.Published != nil {
		db = db.Where("posts.published = ?", *f.Published)
	}
	if f.Featured {
		db = db.Where("posts.featured = ?", true)
	}
	if f.AuthorID != "" {
		db = db.Where("posts.author_id = ?", f.AuthorID)
	}
	if len(f.AnyTags) > 0 {
		conds := make([]string, 0, len(f.AnyTags))
		args := make([]any, 0, len(f.AnyTags))
		for _, tag := range f.AnyTags {
			conds = append(conds, "LOWER(posts.tags) LIKE ?"+likeEscape)
			args = append(args, containsPattern(tag))
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if f.Query != "" {
		p := containsPattern(f.Query)
		db = db.Where(
			"(LOWER(posts.title) LIKE ?"+likeEscape+
				" OR LOWER(posts.subtitle) LIKE ?"+likeEscape+
				" OR LOWER(posts.content) LIKE ?"+likeEscape+
				" OR LOWER(posts.tags) LIKE ?"+likeEscape+")",
			p, p, p, p,
		)
	}
	if f.Topic != "" {
		db = db.Where("LOWER(posts.tags) LIKE ?"+likeEscape, containsPattern(f.Topic))
	}
	if f.Author != "" {
		p := containsPattern(f.Author)
		db = db.Where(
			"posts.author_id IN (SELECT id FROM users WHERE LOWER(users.name) LIKE ?"+likeEscape+" OR LOWER(users.username) LIKE ?"+likeEscape+")",
			p, p,
		)
	}
	return db
}

func applyPostSort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortDate:
		return db.Order("posts.created_at DESC")
	case SortViews:
		return db.Order("posts.views DESC").Order("posts.created_at DESC")
	case SortLikes:
		return db.Order("likes_count DESC").Order("posts.created_at DESC")
	case SortRelevance:
		return db.Order("posts.created_at DESC").Order("posts.views DESC").Order("likes_count DESC")
	default:
		return db.Order("posts.created_at DESC")
	}
}

// List returns one page of posts plus the total matching the filter.
func (r *postRepository) List(ctx context.Context, f PostFilter) ([]models.Post, int64, error) {
	base := r.applyFilter(r.db.WithContext(ctx).Model(&models.Post{}), f)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	var posts []models.Post
	q := applyPostSort(withPostCounts(base.Session(&gorm.Session{})), f.Sort).
		Preload("Author", models.PublicUser)
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

// ListByAuthor returns every post of authorID, newest first, with counts.
func (r *postRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	var posts []models.Post
	err := withPostCounts(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "username", "email")
		}).
		Where("posts.author_id = ?", authorID).
		Order("posts.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts of %s: %w", authorID, err)
	}
	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

// PublishedTagColumns returns the raw tag column of every published post,
// optionally only those whose column contains the given text.
func (r *postRepository) PublishedTagColumns(ctx context.Context, contains string) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("published = ? AND tags <> ''", true)
	if contains != "" {
		q = q.Where("LOWER(tags) LIKE ?"+likeEscape, containsPattern(contains))
	}
	var raws []string
	if err := q.Order("created_at DESC").Pluck("tags", &raws).Error; err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return raws, nil
}

// LatestPublished returns the newest published posts with author.
func (r *postRepository) LatestPublished(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author", models.PublicUser).
		Where("published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("latest posts: %w", err)
	}
	return posts, nil
}

// PublishedSummaries returns id, tags and updated_at of every published post.
func (r *postRepository) PublishedSummaries(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select("id", "tags", "updated_at").
		Where("published = ?", true).
		Order("updated_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("published summaries: %w", err)
	}
	return posts, nil
}
