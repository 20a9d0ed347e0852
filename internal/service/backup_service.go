package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"nashr/internal/cache"
	"nashr/internal/export"
	"nashr/internal/middleware"
	"nashr/internal/models"
	"nashr/internal/observability"
	"nashr/internal/repository"
	"nashr/internal/tags"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
)

// BackupVersion is written into every backup document.
const BackupVersion = "1.0"

// Collections that can be included in a backup.
const (
	CollectionPosts        = "posts"
	CollectionBookmarks    = "bookmarks"
	CollectionLikes        = "likes"
	CollectionComments     = "comments"
	CollectionFollowers    = "followers"
	CollectionFollowing    = "following"
	CollectionPublications = "publications"
)

// DefaultBackupInclude is used when the caller names no collections. The
// profile is always part of the document.
var DefaultBackupInclude = []string{CollectionPosts, "profile", CollectionBookmarks}

// Restore outcomes per record.
const (
	OutcomeImported  = "imported"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

type BackupUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BackupDocument is the downloadable snapshot of a user's data. A nil
// collection was not requested; a requested one is always written, even empty.
type BackupDocument struct {
	User         BackupUser            `json:"user"`
	ExportDate   time.Time             `json:"exportDate"`
	Version      string                `json:"version"`
	Posts        *[]models.Post        `json:"posts,omitempty"`
	Bookmarks    *[]models.Bookmark    `json:"bookmarks,omitempty"`
	Likes        *[]models.Like        `json:"likes,omitempty"`
	Comments     *[]models.Comment     `json:"comments,omitempty"`
	Followers    *[]models.Follow      `json:"followers,omitempty"`
	Following    *[]models.Follow      `json:"following,omitempty"`
	Publications *[]models.Publication `json:"publications,omitempty"`
}

// requested wraps a loaded collection so it serializes as a list, never null.
func requested[T any](list []T, err error) (*[]T, error) {
	if list == nil {
		list = []T{}
	}
	return &list, err
}

// RestorePost accepts tags either as a list or as the raw JSON string column.
type RestorePost struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle"`
	Content     string          `json:"content"`
	Excerpt     string          `json:"excerpt"`
	CoverImage  string          `json:"coverImage"`
	Published   bool            `json:"published"`
	Featured    bool            `json:"featured"`
	ReadingTime int             `json:"readingTime"`
	Views       int             `json:"views"`
	Tags        json.RawMessage `json:"tags"`
	CreatedAt   *time.Time      `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt"`
}

type RestoreReaction struct {
	PostID    string     `json:"postId"`
	CreatedAt *time.Time `json:"createdAt"`
}

type RestoreComment struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	PostID    string     `json:"postId"`
	ParentID  *string    `json:"parentId"`
	Likes     int        `json:"likes"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// RestoreDocument is the subset of a backup document that restore reads.
type RestoreDocument struct {
	User *struct {
		ID string `json:"id"`
	} `json:"user"`
	Posts     []RestorePost     `json:"posts"`
	Bookmarks []RestoreReaction `json:"bookmarks"`
	Likes     []RestoreReaction `json:"likes"`
	Comments  []RestoreComment  `json:"comments"`
}

type RestoreInput struct {
	BackupData *RestoreDocument `json:"backupData"`
	Overwrite  bool             `json:"overwrite"`
}

// RestoreResult is the outcome of one backup record.
type RestoreResult struct {
	Collection string `json:"collection"`
	Record     string `json:"record"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
}

type RestoreCounts struct {
	Posts     int      `json:"posts"`
	Bookmarks int      `json:"bookmarks"`
	Likes     int      `json:"likes"`
	Comments  int      `json:"comments"`
	Errors    []string `json:"errors"`
}

type RestoreSummary struct {
	Message string          `json:"message"`
	Results RestoreCounts   `json:"results"`
	Records []RestoreResult `json:"records"`
}

// BackupService produces and restores user backups.
type BackupService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	reactions   repository.ReactionRepository
	commentRepo repository.CommentRepository
	follows     repository.FollowRepository
	pubRepo     repository.PublicationRepository
	restore     repository.RestoreRepository
	rdb         *redis.Client
	clock       Clock
}

// BackupRepositories groups the stores a backup reads from and restore writes to.
type BackupRepositories struct {
	Users        repository.UserRepository
	Posts        repository.PostRepository
	Reactions    repository.ReactionRepository
	Comments     repository.CommentRepository
	Follows      repository.FollowRepository
	Publications repository.PublicationRepository
	Restore      repository.RestoreRepository
}

func NewBackupService(repos BackupRepositories, rdb *redis.Client, clock Clock) *BackupService {
	return &BackupService{
		userRepo:    repos.Users,
		postRepo:    repos.Posts,
		reactions:   repos.Reactions,
		commentRepo: repos.Comments,
		follows:     repos.Follows,
		pubRepo:     repos.Publications,
		restore:     repos.Restore,
		rdb:         rdb,
		clock:       clock,
	}
}

// ParseInclude splits a comma list; empty input gives DefaultBackupInclude.
func ParseInclude(raw string) []string {
	parts := lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.ToLower(strings.TrimSpace(s))
	}))
	if len(parts) == 0 {
		return DefaultBackupInclude
	}
	return lo.Uniq(parts)
}

// Build assembles the backup document of userID.
func (s *BackupService) Build(ctx context.Context, userID string, include []string) (doc *BackupDocument, err error) {
	const failure = "خطا در ایجاد پشتیبان"
	if userID == "" {
		return nil, ErrLoginRequired
	}
	ctx, span := observability.StartSpan(ctx, "backup.build",
		attribute.StringSlice("backup.include", include))
	defer func() { span.End(err) }()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, internal(failure, notFound(err, msgUserNotFound))
	}
	doc = &BackupDocument{
		User: BackupUser{
			ID:        user.ID,
			Name:      user.Name,
			Username:  user.Username,
			Email:     user.Email,
			Bio:       user.Bio,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
		ExportDate: s.clock.now().UTC(),
		Version:    BackupVersion,
	}

	for _, c := range include {
		var loadErr error
		switch c {
		case CollectionPosts:
			doc.Posts, loadErr = requested(s.postRepo.ListByAuthor(ctx, userID))
		case CollectionBookmarks:
			doc.Bookmarks, loadErr = requested(s.reactions.BookmarkedPosts(ctx, userID))
		case CollectionLikes:
			doc.Likes, loadErr = requested(s.reactions.LikedPosts(ctx, userID))
		case CollectionComments:
			doc.Comments, loadErr = requested(s.commentRepo.ListByAuthor(ctx, userID))
		case CollectionFollowers:
			doc.Followers, loadErr = requested(s.follows.Followers(ctx, userID))
		case CollectionFollowing:
			doc.Following, loadErr = requested(s.follows.Following(ctx, userID))
		case CollectionPublications:
			doc.Publications, loadErr = requested(s.pubRepo.ListByOwner(ctx, userID))
		}
		if loadErr != nil {
			return nil, internal(failure, fmt.Errorf("load %s: %w", c, loadErr))
		}
	}
	return doc, nil
}

// Download renders the backup as a pretty-printed JSON attachment.
func (s *BackupService) Download(ctx context.Context, userID string, include []string) (*export.Document, error) {
	doc, err := s.Build(ctx, userID, include)
	if err != nil {
		return nil, err
	}
	body, err := export.JSON(doc)
	if err != nil {
		return nil, internal("خطا در ایجاد پشتیبان", err)
	}
	name := doc.User.Username
	if name == "" {
		name = doc.User.ID
	}
	observability.ExportsTotal.WithLabelValues("backup").Inc()
	return &export.Document{
		Filename:    fmt.Sprintf("backup-%s-%s.json", name, doc.ExportDate.Format("2006-01-02")),
		ContentType: export.FormatJSON.ContentType(),
		Body:        body,
	}, nil
}

// restoreTags normalizes either tag representation to the stored column.
func restoreTags(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var column string
	if err := json.Unmarshal(raw, &column); err == nil {
		return tags.Encode(tags.Parse(column))
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return tags.Encode(list)
	}
	return ""
}

func timeOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil || t.IsZero() {
		return fallback
	}
	return *t
}

// parentsFirst orders comments oldest first and never places a reply ahead of a
// parent from the same batch. Unresolvable chains keep their relative order at the end.
func parentsFirst(comments []RestoreComment) []RestoreComment {
	sorted := slices.Clone(comments)
	slices.SortStableFunc(sorted, func(a, b RestoreComment) int {
		return timeOr(a.CreatedAt, time.Time{}).Compare(timeOr(b.CreatedAt, time.Time{}))
	})

	pending := make(map[string]int, len(sorted))
	for _, c := range sorted {
		if c.ID != "" {
			pending[c.ID]++
		}
	}
	placed := make([]bool, len(sorted))
	ordered := make([]RestoreComment, 0, len(sorted))
	for progress := true; progress; {
		progress = false
		for i, c := range sorted {
			if placed[i] || (c.ParentID != nil && pending[*c.ParentID] > 0) {
				continue
			}
			placed[i] = true
			if c.ID != "" {
				pending[c.ID]--
			}
			ordered = append(ordered, c)
			progress = true
		}
	}
	for i, c := range sorted {
		if !placed[i] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// Restore imports a backup record by record. Failures are reported per record
// and never abort the remaining records.
func (s *BackupService) Restore(ctx context.Context, userID string, in RestoreInput) (summary *RestoreSummary, err error) {
	if userID == "" {
		return nil, ErrLoginRequired
	}
	data := in.BackupData
	if data == nil || data.User == nil {
		return nil, models.NewValidationError("داده‌های پشتیبان نامعتبر هستند")
	}
	if data.User.ID != userID {
		return nil, models.NewForbiddenError("پشتیبان متعلق به کاربر دیگری است")
	}

	ctx, span := observability.StartSpan(ctx, "backup.restore",
		attribute.Bool("restore.overwrite", in.Overwrite),
		attribute.Int("restore.posts", len(data.Posts)),
	)
	defer func() { span.End(err) }()

	if !in.Overwrite {
		existing, countErr := s.postRepo.CountByAuthor(ctx, userID)
		if countErr != nil {
			return nil, internal("خطا در پردازش پشتیبان", countErr)
		}
		if existing > 0 {
			return nil, models.NewConflictError("شما از قبل داده‌های دارید. برای بازنشانی داده‌ها، overwrite را true کنید")
		}
	}

	now := s.clock.now()
	summary = &RestoreSummary{
		Message: "بازنشانی داده‌ها با موفقیت انجام شد",
		Results: RestoreCounts{Errors: []string{}},
		Records: []RestoreResult{},
	}
	record := func(collection, id, prefix string, insertErr error, counter *int) {
		r := RestoreResult{Collection: collection, Record: id, Outcome: OutcomeImported}
		switch {
		case insertErr == nil:
			*counter++
		case errors.Is(insertErr, repository.ErrAlreadyExists):
			r.Outcome = OutcomeDuplicate
			r.Error = prefix + "رکورد تکراری است"
		default:
			r.Outcome = OutcomeFailed
			r.Error = prefix + insertErr.Error()
		}
		if r.Error != "" {
			summary.Results.Errors = append(summary.Results.Errors, r.Error)
		}
		observability.RestoreRecords.WithLabelValues(collection, r.Outcome).Inc()
		summary.Records = append(summary.Records, r)
	}

	for _, p := range data.Posts {
		post := &models.Post{
			ID:          p.ID,
			Title:       p.Title,
			Subtitle:    p.Subtitle,
			Content:     p.Content,
			Excerpt:     p.Excerpt,
			CoverImage:  p.CoverImage,
			Published:   p.Published,
			Featured:    p.Featured,
			ReadingTime: p.ReadingTime,
			Views:       p.Views,
			Tags:        restoreTags(p.Tags),
			AuthorID:    userID,
			CreatedAt:   timeOr(p.CreatedAt, now),
			UpdatedAt:   timeOr(p.UpdatedAt, now),
		}
		record(CollectionPosts, p.ID, fmt.Sprintf("خطا در وارد کردن مقاله %s: ", p.Title),
			s.restore.InsertPost(ctx, post), &summary.Results.Posts)
	}
	for _, b := range data.Bookmarks {
		bookmark := &models.Bookmark{UserID: userID, PostID: b.PostID, CreatedAt: timeOr(b.CreatedAt, now)}
		record(CollectionBookmarks, b.PostID, "خطا در وارد کردن نشان: ",
			s.restore.InsertBookmark(ctx, bookmark), &summary.Results.Bookmarks)
	}
	for _, l := range data.Likes {
		like := &models.Like{UserID: userID, PostID: l.PostID, CreatedAt: timeOr(l.CreatedAt, now)}
		record(CollectionLikes, l.PostID, "خطا در وارد کردن لایک: ",
			s.restore.InsertLike(ctx, like), &summary.Results.Likes)
	}
	for _, c := range parentsFirst(data.Comments) {
		comment := &models.Comment{
			ID:        c.ID,
			Content:   c.Content,
			PostID:    c.PostID,
			AuthorID:  userID,
			ParentID:  c.ParentID,
			Likes:     c.Likes,
			CreatedAt: timeOr(c.CreatedAt, now),
			UpdatedAt: timeOr(c.UpdatedAt, now),
		}
		record(CollectionComments, c.ID, "خطا در وارد کردن نظر: ",
			s.restore.InsertComment(ctx, comment), &summary.Results.Comments)
	}

	if summary.Results.Posts > 0 {
		cache.InvalidateContent(ctx, s.rdb)
		cache.Invalidate(ctx, s.rdb, cache.UserStatsKey(userID))
	}
	if n := len(summary.Results.Errors); n > 0 {
		middleware.Logger.WarnContext(ctx, "restore finished with failures",
			"user_id", userID, "failed", n, "records", len(summary.Records))
	}
	return summary, nil
}
