package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/validation"
)

const msgPublicationNotFound = "انتشار یافت نشد"

// PublicationService manages publications, their members and followers.
type PublicationService struct {
	pubRepo  repository.PublicationRepository
	userRepo repository.UserRepository
	notify   *NotificationService
	clock    Clock
}

// PublicationInput is the body of create and update. Nil fields are left unchanged on update.
type PublicationInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
	Website     *string `json:"website"`
	Twitter     *string `json:"twitter"`
	Instagram   *string `json:"instagram"`
	LinkedIn    *string `json:"linkedin"`
	About       *string `json:"about"`
	IsPrivate   *bool   `json:"isPrivate"`
}

type AddMemberInput struct {
	UserID string            `json:"userId"`
	Role   models.MemberRole `json:"role"`
}

type PublicationList struct {
	Publications []models.Publication `json:"publications"`
	Pagination   models.Pagination    `json:"pagination"`
}

type MemberList struct {
	Members    []models.PublicationMember `json:"members"`
	Pagination models.Pagination          `json:"pagination"`
}

func NewPublicationService(
	pubRepo repository.PublicationRepository,
	userRepo repository.UserRepository,
	notify *NotificationService,
	clock Clock,
) *PublicationService {
	return &PublicationService{pubRepo: pubRepo, userRepo: userRepo, notify: notify, clock: clock}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func (s *PublicationService) List(ctx context.Context, search string, page, limit int) (*PublicationList, error) {
	pubs, total, err := s.pubRepo.List(ctx, strings.TrimSpace(search), limit, pageOffset(page, limit))
	if err != nil {
		return nil, internal("خطا در دریافت انتشارات", err)
	}
	if pubs == nil {
		pubs = []models.Publication{}
	}
	return &PublicationList{Publications: pubs, Pagination: models.NewPagination(page, limit, total)}, nil
}

// uniqueSlug derives a slug from name and appends the current unix millis on collision.
func (s *PublicationService) uniqueSlug(ctx context.Context, name string) (string, error) {
	slug := validation.Slugify(name)
	taken, err := s.pubRepo.SlugExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if taken {
		slug = fmt.Sprintf("%s-%d", slug, s.clock.now().UnixMilli())
	}
	return slug, nil
}

func (s *PublicationService) Create(ctx context.Context, ownerID string, in PublicationInput) (*models.Publication, error) {
	const failure = "خطا در ایجاد انتشار"
	if ownerID == "" {
		return nil, ErrLoginRequired
	}
	name := str(in.Name)
	if name == "" {
		return nil, models.NewValidationError("نام انتشار الزامی است")
	}

	slug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, internal(failure, err)
	}
	pub := &models.Publication{
		Name:        name,
		Slug:        slug,
		Description: str(in.Description),
		Avatar:      str(in.Avatar),
		Website:     str(in.Website),
		Twitter:     str(in.Twitter),
		Instagram:   str(in.Instagram),
		LinkedIn:    str(in.LinkedIn),
		About:       str(in.About),
		IsPrivate:   in.IsPrivate != nil && *in.IsPrivate,
		OwnerID:     ownerID,
	}
	if err := s.pubRepo.CreateWithOwner(ctx, pub); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, models.NewConflictError("این نامک قبلاً استفاده شده است")
		}
		return nil, internal(failure, err)
	}

	created, err := s.pubRepo.GetByID(ctx, pub.ID)
	if err != nil {
		return nil, internal(failure, err)
	}
	return created, nil
}

func (s *PublicationService) Get(ctx context.Context, id string) (*models.Publication, error) {
	pub, err := s.pubRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, internal("خطا در دریافت اطلاعات انتشار", notFound(err, msgPublicationNotFound))
	}
	return pub, nil
}

// requireManager allows the owner or an OWNER/EDITOR member.
func (s *PublicationService) requireManager(ctx context.Context, userID, id, forbidden, failure string) (*models.Publication, error) {
	pub, err := s.pubRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewForbiddenError(forbidden)
		}
		return nil, internal(failure, err)
	}
	if pub.OwnerID == userID {
		return pub, nil
	}
	role, member, err := s.pubRepo.MemberRole(ctx, id, userID)
	if err != nil {
		return nil, internal(failure, err)
	}
	if !member || !role.CanManage() {
		return nil, models.NewForbiddenError(forbidden)
	}
	return pub, nil
}

func (s *PublicationService) Update(ctx context.Context, userID, id string, in PublicationInput) (*models.Publication, error) {
	const failure = "خطا در ویرایش انتشار"
	if userID == "" {
		return nil, ErrLoginRequired
	}
	if _, err := s.requireManager(ctx, userID, id, "شما اجازه ویرایش این انتشار را ندارید", failure); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if name := str(in.Name); name != "" {
		updates["name"] = name
	}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	set("description", in.Description)
	set("avatar", in.Avatar)
	set("website", in.Website)
	set("twitter", in.Twitter)
	set("instagram", in.Instagram)
	set("linked_in", in.LinkedIn)
	set("about", in.About)
	if in.IsPrivate != nil {
		updates["is_private"] = *in.IsPrivate
	}

	if err := s.pubRepo.Update(ctx, id, updates); err != nil {
		return nil, internal(failure, err)
	}
	pub, err := s.pubRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(failure, err)
	}
	return pub, nil
}

func (s *PublicationService) Delete(ctx context.Context, userID, id string) error {
	const failure = "خطا در حذف انتشار"
	if userID == "" {
		return ErrLoginRequired
	}
	pub, err := s.pubRepo.GetByID(ctx, id)
	if err != nil {
		return internal(failure, notFound(err, msgPublicationNotFound))
	}
	if pub.OwnerID != userID {
		return models.NewForbiddenError("فقط مالک انتشار می‌تواند آن را حذف کند")
	}
	if err := s.pubRepo.Delete(ctx, id); err != nil {
		return internal(failure, err)
	}
	return nil
}

func (s *PublicationService) Members(ctx context.Context, id string, page, limit int) (*MemberList, error) {
	members, total, err := s.pubRepo.Members(ctx, id, limit, pageOffset(page, limit))
	if err != nil {
		return nil, internal("خطا در دریافت اعضای انتشار", err)
	}
	if members == nil {
		members = []models.PublicationMember{}
	}
	return &MemberList{Members: members, Pagination: models.NewPagination(page, limit, total)}, nil
}

func (s *PublicationService) AddMember(ctx context.Context, userID, id string, in AddMemberInput) (*models.PublicationMember, error) {
	const failure = "خطا در افزودن عضو به انتشار"
	if userID == "" {
		return nil, ErrLoginRequired
	}
	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" || in.Role == "" {
		return nil, models.NewValidationError("شناسه کاربر و نقش الزامی هستند")
	}
	if !in.Role.Valid() {
		return nil, models.NewValidationError("نقش نامعتبر است")
	}
	if _, err := s.requireManager(ctx, userID, id, "شما اجازه افزودن عضو به این انتشار را ندارید", failure); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, internal(failure, notFound(err, msgUserNotFound))
	}

	member := &models.PublicationMember{PublicationID: id, UserID: in.UserID, Role: in.Role}
	err := s.pubRepo.AddMember(ctx, member)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, models.NewValidationError("کاربر قبلاً عضو این انتشار بوده است")
	}
	if err != nil {
		return nil, internal(failure, err)
	}
	return member, nil
}

// Follow subscribes the caller and tells the owner.
func (s *PublicationService) Follow(ctx context.Context, userID, id string) error {
	const failure = "خطا در دنبال کردن انتشار"
	if userID == "" {
		return ErrLoginRequired
	}
	pub, err := s.pubRepo.GetByID(ctx, id)
	if err != nil {
		return internal(failure, notFound(err, msgPublicationNotFound))
	}

	err = s.pubRepo.Follow(ctx, id, userID)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return models.NewConflictError("شما قبلاً این انتشار را دنبال می‌کنید")
	}
	if err != nil {
		return internal(failure, err)
	}

	actorName := "یک کاربر"
	if actor, err := s.userRepo.GetByID(ctx, userID); err == nil && actor.Name != "" {
		actorName = actor.Name
	}
	s.notify.Notify(ctx, NotifyInput{
		RecipientID: pub.OwnerID,
		ActorID:     userID,
		Type:        models.NotificationPublicationFollow,
		Message:     actorName + " انتشار شما را دنبال کرد",
	})
	return nil
}

func (s *PublicationService) Unfollow(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrLoginRequired
	}
	removed, err := s.pubRepo.Unfollow(ctx, id, userID)
	if err != nil {
		return internal("خطا در لغو دنبال کردن انتشار", err)
	}
	if !removed {
		return models.NewValidationError("شما این انتشار را دنبال نمی‌کنید")
	}
	return nil
}
