package service

import (
	"context"
	"strings"

	"nashr/internal/cache"
	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/validation"

	"github.com/redis/go-redis/v9"
)

const (
	statsMonths      = 6
	statsTopPosts    = 5
	profileLatest    = 10
	monthKeyLayout   = "2006-01"
	msgStatsFailure  = "خطا در دریافت آمار"
	msgProfileFailed = "خطا در دریافت پروفایل کاربر"
)

type MonthlyViews struct {
	Month string `json:"month"`
	Views int64  `json:"views"`
}

type PostStats struct {
	Published int64 `json:"published"`
	Drafts    int64 `json:"drafts"`
	Total     int64 `json:"total"`
}

// UserStats is the author dashboard.
type UserStats struct {
	repository.AuthorTotals
	MonthlyViews []MonthlyViews       `json:"monthlyViews"`
	TopPosts     []repository.TopPost `json:"topPosts"`
	PostStats    PostStats            `json:"postStats"`
}

type ProfileStats struct {
	TotalPosts     int64 `json:"totalPosts"`
	TotalFollowers int64 `json:"totalFollowers"`
	TotalFollowing int64 `json:"totalFollowing"`
	TotalViews     int64 `json:"totalViews"`
}

// Profile is the public page of a user.
type Profile struct {
	*models.User
	Posts []models.Post `json:"posts"`
	Stats ProfileStats  `json:"stats"`
}

type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Bio   *string `json:"bio"`
	Image *string `json:"image"`
}

// UserService serves profiles and author statistics.
type UserService struct {
	userRepo  repository.UserRepository
	postRepo  repository.PostRepository
	statsRepo repository.StatsRepository
	rdb       *redis.Client
	clock     Clock
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	statsRepo repository.StatsRepository,
	rdb *redis.Client,
	clock Clock,
) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo, statsRepo: statsRepo, rdb: rdb, clock: clock}
}

// Stats is cached per user for a short time.
func (s *UserService) Stats(ctx context.Context, userID string) (*UserStats, error) {
	if userID == "" {
		return nil, models.NewUnauthorizedError("برای مشاهده آمار باید وارد شوید")
	}
	var stats UserStats
	err := cache.Aside(ctx, s.rdb, cache.UserStatsKey(userID), &stats, cache.UserStatsTTL, func(ctx context.Context) error {
		return s.computeStats(ctx, userID, &stats)
	})
	if err != nil {
		return nil, internal(msgStatsFailure, err)
	}
	return &stats, nil
}

func (s *UserService) computeStats(ctx context.Context, userID string, out *UserStats) error {
	totals, err := s.statsRepo.AuthorTotals(ctx, userID)
	if err != nil {
		return err
	}
	top, err := s.statsRepo.TopPosts(ctx, userID, statsTopPosts)
	if err != nil {
		return err
	}
	since := s.clock.now().AddDate(0, -statsMonths, 0)
	rows, err := s.statsRepo.ViewsSince(ctx, userID, since)
	if err != nil {
		return err
	}

	out.AuthorTotals = *totals
	out.TopPosts = top
	if out.TopPosts == nil {
		out.TopPosts = []repository.TopPost{}
	}
	out.MonthlyViews = groupByMonth(rows)
	out.PostStats = PostStats{
		Published: totals.PublishedPosts,
		Drafts:    totals.Posts - totals.PublishedPosts,
		Total:     totals.Posts,
	}
	return nil
}

// groupByMonth sums views per creation month, keeping the order of rows.
func groupByMonth(rows []repository.PostViews) []MonthlyViews {
	out := []MonthlyViews{}
	index := map[string]int{}
	for _, r := range rows {
		key := r.CreatedAt.UTC().Format(monthKeyLayout)
		if i, ok := index[key]; ok {
			out[i].Views += r.Views
			continue
		}
		index[key] = len(out)
		out = append(out, MonthlyViews{Month: key, Views: r.Views})
	}
	return out
}

func (s *UserService) Profile(ctx context.Context, username string) (*Profile, error) {
	username = strings.TrimSpace(username)
	user, err := s.statsRepo.Profile(ctx, username)
	if err != nil {
		return nil, internal(msgProfileFailed, notFound(err, msgUserNotFound))
	}
	totals, err := s.statsRepo.AuthorTotals(ctx, user.ID)
	if err != nil {
		return nil, internal(msgProfileFailed, err)
	}
	published := true
	posts, _, err := s.postRepo.List(ctx, repository.PostFilter{
		Published: &published,
		AuthorID:  user.ID,
		Sort:      repository.SortDate,
		Limit:     profileLatest,
	})
	if err != nil {
		return nil, internal(msgProfileFailed, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return &Profile{
		User:  user,
		Posts: posts,
		Stats: ProfileStats{
			TotalPosts:     user.PostsCount,
			TotalFollowers: user.FollowersCount,
			TotalFollowing: user.FollowingCount,
			TotalViews:     totals.PublishedViews,
		},
	}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	const failure = "خطا در به‌روزرسانی پروفایل"
	if userID == "" {
		return nil, ErrLoginRequired
	}
	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.ValidateName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		updates["name"] = name
	}
	if in.Bio != nil {
		updates["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.Image != nil {
		updates["image"] = strings.TrimSpace(*in.Image)
	}
	if len(updates) > 0 {
		updates["updated_at"] = s.clock.now()
		if err := s.userRepo.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, internal(failure, notFound(err, msgUserNotFound))
		}
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, internal(failure, notFound(err, msgUserNotFound))
	}
	return user, nil
}
