package service

import (
	"context"
	"sort"
	"strings"

	"nashr/internal/cache"
	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/tags"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

// Search target types.
const (
	SearchPosts  = "posts"
	SearchUsers  = "users"
	SearchTopics = "topics"
)

// Topic sort orders.
const (
	TopicSortPopular = "popular"
	TopicSortName    = "name"
	TopicSortRecent  = "recent"
)

// Topic is a tag with the number of published posts carrying it.
type Topic struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Category is one entry of the fixed topic category list.
type Category struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

var topicCategories = []Category{
	{Name: "تکنولوژی", Value: "تکنولوژی"},
	{Name: "برنامه‌نویسی", Value: "برنامه-نویسی"},
	{Name: "طراحی", Value: "طراحی"},
	{Name: "کسب‌وکار", Value: "کسب-وکار"},
	{Name: "علم", Value: "علم"},
	{Name: "فرهنگ و موسیقی", Value: "فرهنگ-موسیقی"},
	{Name: "ورزش", Value: "ورزش"},
	{Name: "سینما", Value: "سینما"},
	{Name: "گردشگری", Value: "گردشگری"},
	{Name: "سیاست", Value: "سیاست"},
	{Name: "تاریخ و فرهنگ", Value: "تاریخ-و-فرهنگ"},
	{Name: "علم و تحقیق", Value: "علم-و-تحقیق"},
}

type SearchInput struct {
	Query  string
	Type   string
	Sort   string
	Topic  string
	Author string
	Page   int
	Limit  int
}

type SearchQuery struct {
	Q      string `json:"q"`
	Type   string `json:"type"`
	Sort   string `json:"sort"`
	Topic  string `json:"topic"`
	Author string `json:"author"`
}

type SearchResult struct {
	Results    any               `json:"results"`
	Pagination models.Pagination `json:"pagination"`
	Query      SearchQuery       `json:"query"`
}

type TopicsInput struct {
	Category string
	Sort     string
	Page     int
	Limit    int
}

type TopicFilters struct {
	Category string `json:"category"`
	Sort     string `json:"sort"`
}

type TopicsResult struct {
	Topics     []Topic           `json:"topics"`
	Categories []Category        `json:"categories"`
	Pagination models.Pagination `json:"pagination"`
	Filters    TopicFilters      `json:"filters"`
}

// topicIndex is the cached aggregate of published tags. Recent lists tags by
// the creation time of their newest post.
type topicIndex struct {
	Freq   map[string]int `json:"freq"`
	Recent []string       `json:"recent"`
}

// SearchService runs the public search and topic listings.
type SearchService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	rdb      *redis.Client
}

func NewSearchService(postRepo repository.PostRepository, userRepo repository.UserRepository, rdb *redis.Client) *SearchService {
	return &SearchService{postRepo: postRepo, userRepo: userRepo, rdb: rdb}
}

func (s *SearchService) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	const failure = "خطا در جستجو"
	in.Query = strings.TrimSpace(in.Query)
	if in.Type == "" {
		in.Type = SearchPosts
	}
	switch in.Sort {
	case repository.SortDate, repository.SortViews, repository.SortLikes:
	default:
		in.Sort = repository.SortRelevance
	}

	res := &SearchResult{Query: SearchQuery{
		Q: in.Query, Type: in.Type, Sort: in.Sort, Topic: in.Topic, Author: in.Author,
	}}
	offset := pageOffset(in.Page, in.Limit)

	switch in.Type {
	case SearchPosts:
		published := true
		posts, total, err := s.postRepo.List(ctx, repository.PostFilter{
			Published: &published,
			Query:     in.Query,
			Topic:     strings.TrimSpace(in.Topic),
			Author:    strings.TrimSpace(in.Author),
			Sort:      in.Sort,
			Limit:     in.Limit,
			Offset:    offset,
		})
		if err != nil {
			return nil, internal(failure, err)
		}
		if posts == nil {
			posts = []models.Post{}
		}
		res.Results = posts
		res.Pagination = models.NewPagination(in.Page, in.Limit, total)

	case SearchUsers:
		users, total, err := s.userRepo.Search(ctx, in.Query, in.Limit, offset)
		if err != nil {
			return nil, internal(failure, err)
		}
		if users == nil {
			users = []models.User{}
		}
		res.Results = users
		res.Pagination = models.NewPagination(in.Page, in.Limit, total)

	case SearchTopics:
		idx, err := s.topics(ctx)
		if err != nil {
			return nil, internal(failure, err)
		}
		q := strings.ToLower(in.Query)
		matched := lo.Filter(rankTopics(idx.Freq), func(t Topic, _ int) bool {
			return q == "" || strings.Contains(strings.ToLower(t.Tag), q)
		})
		res.Results = paginate(matched, offset, in.Limit)
		res.Pagination = models.NewPagination(in.Page, in.Limit, int64(len(matched)))

	default:
		return nil, models.NewValidationError("نوع جستجو نامعتبر است")
	}
	return res, nil
}

// Topics lists published tags with category counts.
func (s *SearchService) Topics(ctx context.Context, in TopicsInput) (*TopicsResult, error) {
	if in.Sort == "" {
		in.Sort = TopicSortPopular
	}
	idx, err := s.topics(ctx)
	if err != nil {
		return nil, internal("خطا در دریافت موضوعات", err)
	}

	var list []Topic
	switch in.Sort {
	case TopicSortName:
		list = rankTopics(idx.Freq)
		sort.SliceStable(list, func(i, j int) bool { return list[i].Tag < list[j].Tag })
	case TopicSortRecent:
		list = lo.Map(idx.Recent, func(tag string, _ int) Topic {
			return Topic{Tag: tag, Count: idx.Freq[tag]}
		})
	default:
		list = rankTopics(idx.Freq)
	}

	category := strings.TrimSpace(in.Category)
	if category != "" && category != "all" {
		list = lo.Filter(list, func(t Topic, _ int) bool {
			return strings.EqualFold(t.Tag, category)
		})
	}

	return &TopicsResult{
		Topics:     paginate(list, pageOffset(in.Page, in.Limit), in.Limit),
		Categories: categoryCounts(idx.Freq),
		Pagination: models.NewPagination(in.Page, in.Limit, int64(len(list))),
		Filters:    TopicFilters{Category: in.Category, Sort: in.Sort},
	}, nil
}

// topics aggregates the tags of every published post, served from Redis when cached.
func (s *SearchService) topics(ctx context.Context) (*topicIndex, error) {
	var idx topicIndex
	err := cache.Aside(ctx, s.rdb, cache.TopicsKey, &idx, cache.TopicsTTL, func(ctx context.Context) error {
		raws, err := s.postRepo.PublishedTagColumns(ctx, "")
		if err != nil {
			return err
		}
		idx.Freq = tags.Aggregate(raws)
		idx.Recent = recentTags(raws)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if idx.Freq == nil {
		idx.Freq = map[string]int{}
	}
	return &idx, nil
}

// recentTags keeps first appearances; raws are ordered newest post first.
func recentTags(raws []string) []string {
	var order []string
	for _, raw := range raws {
		for _, t := range tags.Parse(raw) {
			if t = strings.TrimSpace(t); t != "" {
				order = append(order, t)
			}
		}
	}
	return lo.Uniq(order)
}

func rankTopics(freq map[string]int) []Topic {
	return lo.Map(tags.Ranked(freq), func(tc tags.TagCount, _ int) Topic {
		return Topic{Tag: tc.Name, Count: tc.Count}
	})
}

func categoryCounts(freq map[string]int) []Category {
	out := make([]Category, len(topicCategories))
	copy(out, topicCategories)
	for i := range out {
		for tag := range freq {
			if strings.Contains(strings.ToLower(tag), out[i].Value) {
				out[i].Count++
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
