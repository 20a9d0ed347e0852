package server

import (
	"nashr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Published posts by default; published=false lists the caller's drafts
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param featured query bool false "Only featured posts"
// @Param published query bool false "Published state"
// @Param authorId query string false "Author filter"
// @Param tags query string false "Comma separated tags, any of"
// @Success 200 {object} service.PostList
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 10)

	list, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Page:      page.Page,
		Limit:     page.Limit,
		Featured:  queryBool(c, "featured", false),
		Published: queryBool(c, "published", true),
		AuthorID:  c.Query("authorId"),
		Tags:      splitList(c.Query("tags")),
		ViewerID:  getUserID(c),
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(list)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePostInput true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), getUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Description Counts a view on every call
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"), getUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req service.UpdatePostInput
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), getUserID(c), c.Params("id"), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.UserContext(), getUserID(c), c.Params("id")); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "مقاله با موفقیت حذف شد"})
}
