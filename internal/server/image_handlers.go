package server

import (
	"io"
	"strings"

	"nashr/internal/featureflags"
	"nashr/internal/media"
	"nashr/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/images
// @Summary Upload a cover or avatar image
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Param kind formData string false "cover or avatar"
// @Success 201 {object} media.Upload
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Router /images [post]
func (s *Server) UploadImage(c *fiber.Ctx) error {
	userID := getUserID(c)
	if !s.featureFlags.Enabled(featureflags.ImageUploads, userID) {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("بارگذاری تصویر فعال نیست"))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return mapServiceError(c, models.NewValidationError("فایلی ارسال نشده است"))
	}
	if file.Size > s.mediaService.MaxBytes() {
		return mapServiceError(c, models.NewValidationError("حجم فایل بیش از حد مجاز است"))
	}

	src, err := file.Open()
	if err != nil {
		return mapServiceError(c, models.NewValidationError("خواندن فایل ممکن نیست"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return mapServiceError(c, models.NewValidationError("خواندن فایل ممکن نیست"))
	}

	kind := models.ImageKind(strings.ToLower(strings.TrimSpace(c.FormValue("kind", string(models.ImageKindCover)))))

	uploaded, err := s.mediaService.Upload(c.UserContext(), media.UploadInput{
		UserID:      userID,
		Kind:        kind,
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Content:     content,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(uploaded)
}
