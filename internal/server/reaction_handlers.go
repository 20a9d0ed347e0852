package server

import (
	"github.com/gofiber/fiber/v2"
)

type postTarget struct {
	PostID string `json:"postId"`
}

// ToggleLike handles POST /api/like
// @Summary Like or unlike a post
// @Tags reactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{postId=string} true "Target post"
// @Success 200 {object} object{message=string,liked=bool}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var req postTarget
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	liked, err := s.reactionService.ToggleLike(c.UserContext(), getUserID(c), req.PostID)
	if err != nil {
		return mapServiceError(c, err)
	}

	msg := "لایک با موفقیت حذف شد"
	if liked {
		msg = "مقاله با موفقیت لایک شد"
	}
	return c.JSON(fiber.Map{"message": msg, "liked": liked})
}

// GetLikes handles GET /api/like: a single state with ?postId, else the caller's likes.
func (s *Server) GetLikes(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := getUserID(c)

	if postID := c.Query("postId"); postID != "" {
		liked, err := s.reactionService.IsLiked(ctx, userID, postID)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"isLiked": liked})
	}

	likes, err := s.reactionService.LikedPosts(ctx, userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"likedPosts": likes})
}

// ToggleBookmark handles POST /api/bookmark
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	var req postTarget
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	marked, err := s.reactionService.ToggleBookmark(c.UserContext(), getUserID(c), req.PostID)
	if err != nil {
		return mapServiceError(c, err)
	}

	msg := "نشان با موفقیت حذف شد"
	if marked {
		msg = "مقاله با موفقیت نشان شد"
	}
	return c.JSON(fiber.Map{"message": msg, "bookmarked": marked})
}

// GetBookmarks handles GET /api/bookmark
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := getUserID(c)

	if postID := c.Query("postId"); postID != "" {
		marked, err := s.reactionService.IsBookmarked(ctx, userID, postID)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"isBookmarked": marked})
	}

	marks, err := s.reactionService.BookmarkedPosts(ctx, userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarkedPosts": marks})
}

// ToggleCommentLike handles POST /api/comments/like
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	var req struct {
		CommentID string `json:"commentId"`
	}
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	liked, likes, err := s.reactionService.ToggleCommentLike(c.UserContext(), getUserID(c), req.CommentID)
	if err != nil {
		return mapServiceError(c, err)
	}

	msg := "لایک با موفقیت حذف شد"
	if liked {
		msg = "کامنت با موفقیت لایک شد"
	}
	return c.JSON(fiber.Map{"message": msg, "liked": liked, "likes": likes})
}
