package server

import (
	"nashr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments?postId=
// @Summary List comments of a post
// @Description Top-level comments newest first, each with its replies
// @Tags comments
// @Produce json
// @Param postId query string true "Post ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} service.CommentList
// @Failure 400 {object} models.ErrorResponse
// @Router /comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	page := parsePagination(c, 10)

	list, err := s.commentService.ListComments(c.UserContext(), c.Query("postId"), page.Page, page.Limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(list)
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req service.CreateCommentInput
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), getUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
