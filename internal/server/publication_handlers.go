package server

import (
	"nashr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPublications handles GET /api/publications
// @Summary List publications
// @Tags publications
// @Produce json
// @Param search query string false "Name, description or slug contains"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} service.PublicationList
// @Router /publications [get]
func (s *Server) GetPublications(c *fiber.Ctx) error {
	page := parsePagination(c, 10)

	list, err := s.publicationService.List(c.UserContext(), c.Query("search"), page.Page, page.Limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(list)
}

// CreatePublication handles POST /api/publications
// @Summary Create a publication
// @Description The caller becomes its owner and first OWNER member
// @Tags publications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PublicationInput true "Publication"
// @Success 201 {object} models.Publication
// @Failure 400 {object} models.ErrorResponse
// @Router /publications [post]
func (s *Server) CreatePublication(c *fiber.Ctx) error {
	var req service.PublicationInput
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	pub, err := s.publicationService.Create(c.UserContext(), getUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pub)
}

// GetPublication handles GET /api/publications/:id
func (s *Server) GetPublication(c *fiber.Ctx) error {
	pub, err := s.publicationService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(pub)
}

// UpdatePublication handles PUT /api/publications/:id
func (s *Server) UpdatePublication(c *fiber.Ctx) error {
	var req service.PublicationInput
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	pub, err := s.publicationService.Update(c.UserContext(), getUserID(c), c.Params("id"), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(pub)
}

// DeletePublication handles DELETE /api/publications/:id
func (s *Server) DeletePublication(c *fiber.Ctx) error {
	if err := s.publicationService.Delete(c.UserContext(), getUserID(c), c.Params("id")); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "انتشار با موفقیت حذف شد"})
}

// FollowPublication handles POST /api/publications/:id/follow
func (s *Server) FollowPublication(c *fiber.Ctx) error {
	if err := s.publicationService.Follow(c.UserContext(), getUserID(c), c.Params("id")); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "انتشار با موفقیت دنبال شد"})
}

// UnfollowPublication handles DELETE /api/publications/:id/follow
func (s *Server) UnfollowPublication(c *fiber.Ctx) error {
	if err := s.publicationService.Unfollow(c.UserContext(), getUserID(c), c.Params("id")); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "دنبال کردن انتشار لغو شد"})
}

// GetPublicationMembers handles GET /api/publications/:id/members
func (s *Server) GetPublicationMembers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	list, err := s.publicationService.Members(c.UserContext(), c.Params("id"), page.Page, page.Limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(list)
}

// AddPublicationMember handles POST /api/publications/:id/members
func (s *Server) AddPublicationMember(c *fiber.Ctx) error {
	var req service.AddMemberInput
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	member, err := s.publicationService.AddMember(c.UserContext(), getUserID(c), c.Params("id"), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}
