package server

import (
	"nashr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Search handles GET /api/search
// @Summary Search posts, users or topics
// @Tags search
// @Produce json
// @Param q query string false "Search text"
// @Param type query string false "posts, users or topics"
// @Param sort query string false "relevance, date, views or likes"
// @Param topic query string false "Tag filter"
// @Param author query string false "Author name or username"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} service.SearchResult
// @Failure 400 {object} models.ErrorResponse
// @Router /search [get]
func (s *Server) Search(c *fiber.Ctx) error {
	page := parsePagination(c, 10)

	result, err := s.searchService.Search(c.UserContext(), service.SearchInput{
		Query:  c.Query("q"),
		Type:   c.Query("type", service.SearchPosts),
		Sort:   c.Query("sort"),
		Topic:  c.Query("topic"),
		Author: c.Query("author"),
		Page:   page.Page,
		Limit:  page.Limit,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

// GetTopics handles GET /api/topics
func (s *Server) GetTopics(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	result, err := s.searchService.Topics(c.UserContext(), service.TopicsInput{
		Category: c.Query("category"),
		Sort:     c.Query("sort", service.TopicSortPopular),
		Page:     page.Page,
		Limit:    page.Limit,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}
