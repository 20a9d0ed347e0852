package server

import (
	"nashr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserStats handles GET /api/user/stats
// @Summary Author dashboard statistics
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserStats
// @Failure 401 {object} models.ErrorResponse
// @Router /user/stats [get]
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	stats, err := s.userService.Stats(c.UserContext(), getUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(stats)
}

// UpdateProfile handles PUT /api/user/profile
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileInput true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /user/profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), getUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	profile, err := s.userService.Profile(c.UserContext(), c.Params("username"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(profile)
}
