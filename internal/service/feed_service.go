package service

import (
	"context"

	"nashr/internal/cache"
	"nashr/internal/feed"
	"nashr/internal/repository"

	"github.com/redis/go-redis/v9"
)

// FeedService renders the RSS feed and sitemap, cached in Redis.
type FeedService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	rdb      *redis.Client
	baseURL  string
	clock    Clock
}

func NewFeedService(postRepo repository.PostRepository, userRepo repository.UserRepository, rdb *redis.Client, baseURL string, clock Clock) *FeedService {
	return &FeedService{postRepo: postRepo, userRepo: userRepo, rdb: rdb, baseURL: baseURL, clock: clock}
}

func (s *FeedService) RSS(ctx context.Context) ([]byte, error) {
	var body []byte
	err := cache.Aside(ctx, s.rdb, cache.RSSKey, &body, cache.FeedTTL, func(ctx context.Context) error {
		posts, err := s.postRepo.LatestPublished(ctx, feed.RSSItems)
		if err != nil {
			return err
		}
		body, err = feed.RSS(s.baseURL, posts, s.clock.now())
		return err
	})
	if err != nil {
		return nil, internal("خطا در تولید فید", err)
	}
	return body, nil
}

func (s *FeedService) Sitemap(ctx context.Context) ([]byte, error) {
	var body []byte
	err := cache.Aside(ctx, s.rdb, cache.SitemapKey, &body, cache.FeedTTL, func(ctx context.Context) error {
		posts, err := s.postRepo.PublishedSummaries(ctx)
		if err != nil {
			return err
		}
		authors, err := s.userRepo.ListWithPublishedPosts(ctx)
		if err != nil {
			return err
		}
		columns, err := s.postRepo.PublishedTagColumns(ctx, "")
		if err != nil {
			return err
		}
		body, err = feed.Sitemap(s.baseURL, feed.SitemapInput{
			Posts:      posts,
			Authors:    authors,
			TagColumns: columns,
		}, s.clock.now())
		return err
	})
	if err != nil {
		return nil, internal("خطا در تولید نقشه سایت", err)
	}
	return body, nil
}
