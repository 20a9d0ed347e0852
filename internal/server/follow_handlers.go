package server

import (
	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/follow
// @Summary Follow a user
// @Tags follows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{followingId=string} true "User to follow"
// @Success 200 {object} object{message=string,follow=models.Follow}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /follow [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	var req struct {
		FollowingID string `json:"followingId"`
	}
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	follow, err := s.followService.Follow(c.UserContext(), getUserID(c), req.FollowingID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "با موفقیت دنبال شدید", "follow": follow})
}

// Unfollow handles DELETE /api/follow?followingId=
func (s *Server) Unfollow(c *fiber.Ctx) error {
	if err := s.followService.Unfollow(c.UserContext(), getUserID(c), c.Query("followingId")); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "دنبال کردن با موفقیت لغو شد"})
}

// CheckFollow handles GET /api/follow/check?followingId=
func (s *Server) CheckFollow(c *fiber.Ctx) error {
	following, err := s.followService.IsFollowing(c.UserContext(), getUserID(c), c.Query("followingId"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"isFollowing": following})
}
