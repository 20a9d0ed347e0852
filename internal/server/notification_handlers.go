package server

import (
	"nashr/internal/models"
	"nashr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param unreadOnly query bool false "Only unread"
// @Success 200 {object} service.NotificationList
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	list, err := s.notificationService.List(c.UserContext(), getUserID(c), page.Page, page.Limit,
		queryBool(c, "unreadOnly", false))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(list)
}

// CreateNotification handles POST /api/notifications
func (s *Server) CreateNotification(c *fiber.Ctx) error {
	var req service.CreateNotificationInput
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	view, err := s.notificationService.Create(c.UserContext(), getUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// UpdateNotifications handles PATCH /api/notifications?id= or ?markAll=true
func (s *Server) UpdateNotifications(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := getUserID(c)

	if queryBool(c, "markAll", false) {
		if _, err := s.notificationService.MarkAllRead(ctx, userID); err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "همه اطلاع‌رسانی‌ها خوانده شدند"})
	}

	id := c.Query("id")
	if id == "" {
		return mapServiceError(c, models.NewValidationError("شناسه اطلاع‌رسانی یا markAll الزامی است"))
	}
	if err := s.notificationService.MarkRead(ctx, userID, id); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "اطلاع‌رسانی خوانده شد"})
}

// DeleteNotifications handles DELETE /api/notifications?id= or ?deleteAll=true
func (s *Server) DeleteNotifications(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := getUserID(c)

	if queryBool(c, "deleteAll", false) {
		if _, err := s.notificationService.DeleteAll(ctx, userID); err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "همه اطلاع‌رسانی‌ها حذف شدند"})
	}

	id := c.Query("id")
	if id == "" {
		return mapServiceError(c, models.NewValidationError("شناسه اطلاع‌رسانی یا deleteAll الزامی است"))
	}
	if err := s.notificationService.Delete(ctx, userID, id); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "اطلاع‌رسانی حذف شد"})
}
