package repository

import (
	"context"
	"fmt"

	"nashr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PublicationRepository persists publications, their members and followers.
type PublicationRepository interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.Publication, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Publication, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	CreateWithOwner(ctx context.Context, pub *models.Publication) error
	GetByID(ctx context.Context, id string) (*models.Publication, error)
	GetDetail(ctx context.Context, id string) (*models.Publication, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	MemberRole(ctx context.Context, publicationID, userID string) (models.MemberRole, bool, error)
	Members(ctx context.Context, publicationID string, limit, offset int) ([]models.PublicationMember, int64, error)
	AddMember(ctx context.Context, member *models.PublicationMember) error
	Follow(ctx context.Context, publicationID, userID string) error
	Unfollow(ctx context.Context, publicationID, userID string) (bool, error)
}

type publicationRepository struct {
	db *gorm.DB
}

// NewPublicationRepository creates a PublicationRepository.
func NewPublicationRepository(db *gorm.DB) PublicationRepository {
	return &publicationRepository{db: db}
}

const publicationCountsSelect = "publications.*, " +
	"(SELECT COUNT(*) FROM posts WHERE posts.publication_id = publications.id) AS posts_count, " +
	"(SELECT COUNT(*) FROM publication_followers WHERE publication_followers.publication_id = publications.id) AS followers_count, " +
	"(SELECT COUNT(*) FROM publication_members WHERE publication_members.publication_id = publications.id) AS members_count"

func (r *publicationRepository) List(ctx context.Context, search string, limit, offset int) ([]models.Publication, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Publication{})
	if search != "" {
		p := containsPattern(search)
		base = base.Where(
			"LOWER(publications.name) LIKE ?"+likeEscape+
				" OR LOWER(publications.description) LIKE ?"+likeEscape+
				" OR LOWER(publications.slug) LIKE ?"+likeEscape,
			p, p, p,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count publications: %w", err)
	}

	var pubs []models.Publication
	err := base.Select(publicationCountsSelect).
		Preload("Owner", models.PublicUser).
		Order("publications.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pubs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list publications: %w", err)
	}
	return pubs, total, nil
}

func (r *publicationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Publication, error) {
	var pubs []models.Publication
	err := r.db.WithContext(ctx).Model(&models.Publication{}).
		Select(publicationCountsSelect).
		Where("publications.owner_id = ?", ownerID).
		Order("publications.created_at DESC").
		Find(&pubs).Error
	return pubs, err
}

func (r *publicationRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Publication{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// CreateWithOwner inserts the publication and its OWNER membership atomically.
func (r *publicationRepository) CreateWithOwner(ctx context.Context, pub *models.Publication) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(pub).Error; err != nil {
			return err
		}
		return tx.Create(&models.PublicationMember{
			PublicationID: pub.ID,
			UserID:        pub.OwnerID,
			Role:          models.MemberRoleOwner,
		}).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create publication: %w", err)
	}
	return nil
}

// GetByID loads the publication with owner and counts.
func (r *publicationRepository) GetByID(ctx context.Context, id string) (*models.Publication, error) {
	var pub models.Publication
	err := r.db.WithContext(ctx).Model(&models.Publication{}).
		Select(publicationCountsSelect).
		Preload("Owner", models.PublicUser).
		Where("publications.id = ?", id).
		First(&pub).Error
	if err != nil {
		return nil, fmt.Errorf("get publication %s: %w", id, err)
	}
	return &pub, nil
}

// GetDetail adds members and the six latest published posts to GetByID.
func (r *publicationRepository) GetDetail(ctx context.Context, id string) (*models.Publication, error) {
	var pub models.Publication
	err := r.db.WithContext(ctx).Model(&models.Publication{}).
		Select(publicationCountsSelect).
		Preload("Owner", models.PublicUser).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Members.User", models.PublicUser).
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return withPostCounts(db).Where("posts.published = ?", true).Order("posts.created_at DESC").Limit(6)
		}).
		Preload("Posts.Author", models.PublicUser).
		Where("publications.id = ?", id).
		First(&pub).Error
	if err != nil {
		return nil, fmt.Errorf("get publication %s: %w", id, err)
	}
	return &pub, nil
}

func (r *publicationRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Publication{}).Where("id = ?", id).Updates(updates).Error
}

func (r *publicationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Publication{}).Error
}

// MemberRole returns the caller's role and whether they are a member at all.
func (r *publicationRepository) MemberRole(ctx context.Context, publicationID, userID string) (models.MemberRole, bool, error) {
	var member models.PublicationMember
	err := r.db.WithContext(ctx).
		Where("publication_id = ? AND user_id = ?", publicationID, userID).
		First(&member).Error
	if IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return member.Role, true, nil
}

func (r *publicationRepository) Members(ctx context.Context, publicationID string, limit, offset int) ([]models.PublicationMember, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.PublicationMember{}).Where("publication_id = ?", publicationID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []models.PublicationMember
	err := base.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "username", "image", "bio", "created_at")
		}).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&members).Error
	return members, total, err
}

// AddMember returns ErrAlreadyExists when the user is already a member.
func (r *publicationRepository) AddMember(ctx context.Context, member *models.PublicationMember) error {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(member)
	if res.Error != nil {
		return fmt.Errorf("add member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	var user models.User
	if err := models.PublicUser(r.db.WithContext(ctx)).Where("id = ?", member.UserID).First(&user).Error; err != nil {
		return fmt.Errorf("load member: %w", err)
	}
	member.User = &user
	return nil
}

// Follow returns ErrAlreadyExists when the pair is present.
func (r *publicationRepository) Follow(ctx context.Context, publicationID, userID string) error {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PublicationFollower{PublicationID: publicationID, UserID: userID})
	if res.Error != nil {
		return fmt.Errorf("follow publication: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *publicationRepository) Unfollow(ctx context.Context, publicationID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("publication_id = ? AND user_id = ?", publicationID, userID).
		Delete(&models.PublicationFollower{})
	if res.Error != nil {
		return false, fmt.Errorf("unfollow publication: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
