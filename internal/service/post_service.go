package service

import (
	"context"
	"math"
	"strings"

	"nashr/internal/cache"
	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/tags"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

const (
	msgPostNotFound = "مقاله یافت نشد"
	wordsPerMinute  = 200
	excerptRunes    = 200
)

type PostService struct {
	postRepo repository.PostRepository
	pubRepo  repository.PublicationRepository
	rdb      *redis.Client
}

type ListPostsInput struct {
	Page      int
	Limit     int
	Featured  bool
	Published bool
	AuthorID  string
	Tags      []string
	// ViewerID scopes draft listings to the caller's own posts.
	ViewerID string
}

// PostList is one page of posts.
type PostList struct {
	Posts      []models.Post     `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

type CreatePostInput struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	CoverImage    string   `json:"coverImage"`
	Published     bool     `json:"published"`
	Featured      bool     `json:"featured"`
	Tags          []string `json:"tags"`
	ReadingTime   *int     `json:"readingTime"`
	PublicationID string   `json:"publicationId"`
}

// UpdatePostInput holds optional fields; nil means "leave unchanged".
type UpdatePostInput struct {
	Title       *string   `json:"title"`
	Subtitle    *string   `json:"subtitle"`
	Content     *string   `json:"content"`
	Excerpt     *string   `json:"excerpt"`
	CoverImage  *string   `json:"coverImage"`
	Published   *bool     `json:"published"`
	Featured    *bool     `json:"featured"`
	Tags        *[]string `json:"tags"`
	ReadingTime *int      `json:"readingTime"`
}

func NewPostService(postRepo repository.PostRepository, pubRepo repository.PublicationRepository, rdb *redis.Client) *PostService {
	return &PostService{postRepo: postRepo, pubRepo: pubRepo, rdb: rdb}
}

// ReadingTime estimates minutes at 200 words per minute, rounded up.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// Excerpt is the first 200 characters of content followed by an ellipsis.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptRunes {
		runes = runes[:excerptRunes]
	}
	return string(runes) + "..."
}

func normalizeTags(list []string) []string {
	return lo.Uniq(lo.FilterMap(list, func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	}))
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostList, error) {
	published := in.Published
	filter := repository.PostFilter{
		Published: &published,
		Featured:  in.Featured,
		AuthorID:  in.AuthorID,
		AnyTags:   normalizeTags(in.Tags),
		Sort:      repository.SortDate,
		Limit:     in.Limit,
		Offset:    pageOffset(in.Page, in.Limit),
	}
	if !published {
		if in.ViewerID == "" {
			return nil, ErrLoginRequired
		}
		filter.AuthorID = in.ViewerID
	}

	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, internal("خطا در دریافت مقالات", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return &PostList{Posts: posts, Pagination: models.NewPagination(in.Page, in.Limit, total)}, nil
}

func (s *PostService) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (*models.Post, error) {
	if authorID == "" {
		return nil, ErrLoginRequired
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("فیلدهای عنوان، محتوا و نویسنده الزامی هستند")
	}

	post := &models.Post{
		Title:       title,
		Subtitle:    strings.TrimSpace(in.Subtitle),
		Content:     in.Content,
		Excerpt:     in.Excerpt,
		CoverImage:  in.CoverImage,
		Published:   in.Published,
		Featured:    in.Featured,
		Tags:        tags.Encode(normalizeTags(in.Tags)),
		ReadingTime: ReadingTime(in.Content),
		AuthorID:    authorID,
	}
	if in.ReadingTime != nil && *in.ReadingTime > 0 {
		post.ReadingTime = *in.ReadingTime
	}
	if post.Excerpt == "" {
		post.Excerpt = Excerpt(in.Content)
	}
	if in.PublicationID != "" {
		if err := s.requireMember(ctx, in.PublicationID, authorID); err != nil {
			return nil, err
		}
		post.PublicationID = &in.PublicationID
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, internal("خطا در ایجاد مقاله", err)
	}
	if post.Published {
		cache.InvalidateContent(ctx, s.rdb)
	}
	return s.reload(ctx, post.ID)
}

func (s *PostService) requireMember(ctx context.Context, publicationID, userID string) error {
	_, member, err := s.pubRepo.MemberRole(ctx, publicationID, userID)
	if err != nil {
		return internal("خطا در ایجاد مقاله", err)
	}
	if !member {
		return models.NewForbiddenError("شما عضو این انتشار نیستید")
	}
	return nil
}

func (s *PostService) reload(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgPostNotFound)
	}
	return post, nil
}

// GetPost loads a post and counts the view. Drafts are only visible to their author.
func (s *PostService) GetPost(ctx context.Context, id, viewerID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal("خطا در دریافت مقاله", notFound(err, msgPostNotFound))
	}
	if !post.Published && post.AuthorID != viewerID {
		return nil, models.NewNotFoundError(msgPostNotFound)
	}
	if err := s.postRepo.IncrementViews(ctx, id); err != nil {
		return nil, internal("خطا در دریافت مقاله", err)
	}
	post.Views++
	return post, nil
}

// ownedPost loads the bare row and checks that userID wrote it. failure is the
// message of the calling operation when the lookup itself breaks.
func (s *PostService) ownedPost(ctx context.Context, userID, id, forbidden, failure string) (*models.Post, error) {
	if userID == "" {
		return nil, ErrLoginRequired
	}
	post, err := s.postRepo.GetPlain(ctx, id)
	if err != nil {
		return nil, internal(failure, notFound(err, msgPostNotFound))
	}
	if post.AuthorID != userID {
		return nil, models.NewForbiddenError(forbidden)
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, userID, id string, in UpdatePostInput) (*models.Post, error) {
	existing, err := s.ownedPost(ctx, userID, id, "شما مجوز ویرایش این مقاله را ندارید", "خطا در ویرایش مقاله")
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t != "" {
			updates["title"] = t
		}
	}
	if in.Subtitle != nil {
		updates["subtitle"] = strings.TrimSpace(*in.Subtitle)
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) != "" && *in.Content != existing.Content {
		updates["content"] = *in.Content
		updates["reading_time"] = ReadingTime(*in.Content)
		if in.Excerpt == nil || *in.Excerpt == "" {
			updates["excerpt"] = Excerpt(*in.Content)
		}
	}
	if in.ReadingTime != nil && *in.ReadingTime > 0 {
		updates["reading_time"] = *in.ReadingTime
	}
	if in.Excerpt != nil && *in.Excerpt != "" {
		updates["excerpt"] = *in.Excerpt
	}
	if in.CoverImage != nil {
		updates["cover_image"] = *in.CoverImage
	}
	if in.Published != nil {
		updates["published"] = *in.Published
	}
	if in.Featured != nil {
		updates["featured"] = *in.Featured
	}
	if in.Tags != nil {
		updates["tags"] = tags.Encode(normalizeTags(*in.Tags))
	}

	if err := s.postRepo.Update(ctx, id, updates); err != nil {
		return nil, internal("خطا در ویرایش مقاله", err)
	}
	if existing.Published || (in.Published != nil && *in.Published) {
		cache.InvalidateContent(ctx, s.rdb)
	}
	return s.reload(ctx, id)
}

func (s *PostService) DeletePost(ctx context.Context, userID, id string) error {
	existing, err := s.ownedPost(ctx, userID, id, "شما مجوز حذف این مقاله را ندارید", "خطا در حذف مقاله")
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return internal("خطا در حذف مقاله", notFound(err, msgPostNotFound))
	}
	if existing.Published {
		cache.InvalidateContent(ctx, s.rdb)
	}
	return nil
}
