package server

import (
	"nashr/internal/models"
	"nashr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Export handles GET /api/export?type=json|csv|markdown|pdf&postId=
// @Summary Export posts
// @Description One post, or all of the caller's posts. pdf is served as markdown.
// @Tags export
// @Produce json
// @Produce text/csv
// @Produce text/markdown
// @Security BearerAuth
// @Param type query string false "json, csv, markdown or pdf"
// @Param postId query string false "Single post"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /export [get]
func (s *Server) Export(c *fiber.Ctx) error {
	doc, err := s.exportService.Export(c.UserContext(), getUserID(c), c.Query("type", "json"), c.Query("postId"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return attachment(c, doc.Filename, doc.ContentType, doc.Body)
}

// DownloadBackup handles GET /api/backup?include=posts,bookmarks
// @Summary Download a backup of the caller's data
// @Tags backup
// @Produce json
// @Security BearerAuth
// @Param include query string false "Comma separated collections"
// @Success 200 {file} file
// @Router /backup [get]
func (s *Server) DownloadBackup(c *fiber.Ctx) error {
	doc, err := s.backupService.Download(c.UserContext(), getUserID(c), service.ParseInclude(c.Query("include")))
	if err != nil {
		return mapServiceError(c, err)
	}
	return attachment(c, doc.Filename, doc.ContentType, doc.Body)
}

// RestoreBackup handles POST /api/backup
// @Summary Restore a backup
// @Description Records are inserted one by one; each outcome is reported and a partial failure still answers 200.
// @Tags backup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.RestoreInput true "Backup document"
// @Success 200 {object} service.RestoreSummary
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /backup [post]
func (s *Server) RestoreBackup(c *fiber.Ctx) error {
	if getUserID(c) == "" {
		return mapServiceError(c, models.NewUnauthorizedError(""))
	}

	var req service.RestoreInput
	if err := c.BodyParser(&req); err != nil {
		return mapServiceError(c, models.NewValidationError("داده‌های پشتیبان نامعتبر هستند"))
	}

	summary, err := s.backupService.Restore(c.UserContext(), getUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(summary)
}
