package repository

import (
	"context"
	"fmt"
	"time"

	"nashr/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id string, updates map[string]any) error
	SetResetToken(ctx context.Context, id, token string, expiry time.Time) error
	ResetPassword(ctx context.Context, id, passwordHash string) error
	Search(ctx context.Context, query string, limit, offset int) ([]models.User, int64, error)
	ListWithPublishedPosts(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID returns gorm.ErrRecordNotFound (wrapped) when the user is missing.
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has that email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// GetByUsername returns (nil, nil) when no user has that username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// GetByResetToken returns the user holding an unexpired reset token, or (nil, nil).
func (r *userRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.findOne(ctx, "reset_token = ? AND reset_token_expiry > ?", token, now)
}

func (r *userRepository) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateProfile applies a whitelisted column map.
func (r *userRepository) UpdateProfile(ctx context.Context, id string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update user %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id, token string, expiry time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"reset_token": token, "reset_token_expiry": expiry}).Error
}

// ResetPassword stores the new hash and clears the reset token in one statement.
func (r *userRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{
			"password":           passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		}).Error
}

const userCountsSelect = "users.id, users.name, users.username, users.bio, users.image, users.created_at, " +
	"(SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id AND posts.published = ?) AS posts_count, " +
	"(SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id) AS followers_count, " +
	"(SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id) AS following_count"

// Search matches name, username or bio and orders by name. Emails are never selected.
func (r *userRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.User{})
	if query != "" {
		p := containsPattern(query)
		base = base.Where(
			"LOWER(users.name) LIKE ?"+likeEscape+" OR LOWER(users.username) LIKE ?"+likeEscape+" OR LOWER(users.bio) LIKE ?"+likeEscape,
			p, p, p,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	err := base.Select(userCountsSelect, true).
		Order("users.name ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	return users, total, nil
}

// ListWithPublishedPosts returns users that authored at least one published post.
func (r *userRepository) ListWithPublishedPosts(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id, username, updated_at").
		Where("EXISTS (SELECT 1 FROM posts WHERE posts.author_id = users.id AND posts.published = ?)", true).
		Order("updated_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return users, nil
}
