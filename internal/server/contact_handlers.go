package server

import (
	"nashr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitContact handles POST /api/contact
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body service.ContactInput true "Message"
// @Success 201 {object} object{message=string,id=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /contact [post]
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	var req service.ContactInput
	if err := parseBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	msg, err := s.contactService.Submit(c.UserContext(), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "پیام شما با موفقیت ارسال شد",
		"id":      msg.ID,
	})
}

// GetContactMessages handles GET /api/contact
func (s *Server) GetContactMessages(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	list, err := s.contactService.List(c.UserContext(), getUserID(c), c.Query("status"), page.Page, page.Limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(list)
}
