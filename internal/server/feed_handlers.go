package server

import (
	"nashr/internal/feed"

	"github.com/gofiber/fiber/v2"
)

// RSS handles GET /rss and /rss.xml
func (s *Server) RSS(c *fiber.Ctx) error {
	body, err := s.feedService.RSS(c.UserContext())
	if err != nil {
		return mapServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, feed.RSSContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Send(body)
}

// Sitemap handles GET /sitemap.xml
func (s *Server) Sitemap(c *fiber.Ctx) error {
	body, err := s.feedService.Sitemap(c.UserContext())
	if err != nil {
		return mapServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, feed.SitemapContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Send(body)
}
