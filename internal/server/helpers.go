package server

import (
	"errors"
	"strings"

	"nashr/internal/middleware"
	"nashr/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	maxPaginationLimit = 100
	msgInvalidBody     = "داده‌های ارسالی نامعتبر است"
)

// Pagination holds parsed page/limit query parameters.
type Pagination struct {
	Page  int
	Limit int
}

// parsePagination extracts page and limit query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	return Pagination{Page: page, Limit: limit}
}

// getUserID returns the caller resolved by the auth middleware, or "" for anonymous requests.
func getUserID(c *fiber.Ctx) string {
	return middleware.CallerID(c)
}

// queryBool reads a "true"/"false" query flag, falling back to def when absent.
func queryBool(c *fiber.Ctx, key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "":
		return def
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// splitList parses a comma separated query value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseBody decodes the JSON body into dst, writing a 400 on failure.
// Callers return the error unchanged: it is nil after a successful parse.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return models.NewValidationError(msgInvalidBody)
	}
	return nil
}

// mapServiceError writes the standard error envelope for err. AppErrors keep their
// status and message; anything else is logged and reported as a generic 500.
func mapServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus()
		if status >= fiber.StatusInternalServerError {
			middleware.Logger.ErrorContext(c.UserContext(), "request failed",
				"path", c.Path(), "error", err.Error())
		}
		return models.RespondWithError(c, status, appErr)
	}
	middleware.Logger.ErrorContext(c.UserContext(), "request failed", "path", c.Path(), "error", err.Error())
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError("", err))
}

// attachment sends body as a downloadable file.
func attachment(c *fiber.Ctx, filename, contentType string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(body)
}
