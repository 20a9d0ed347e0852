// Package middleware provides authentication, logging, tracing and rate limiting for the HTTP API.
package middleware

import (
	"context"
	"errors"
	"strings"

	"nashr/internal/config"
	"nashr/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// LocalUserID is the fiber locals key holding the authenticated caller's ID.
const LocalUserID = "userID"

// Access tokens are issued by and for this API only.
const (
	TokenIssuer   = "nashr-api"
	TokenAudience = "nashr-client"
)

var cfg *config.Config

var (
	errMissingToken = errors.New("missing token")
	errBadToken     = errors.New("invalid or expired token")
)

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// ParseToken validates an access token and returns the user ID from its subject.
func ParseToken(raw string) (string, error) {
	if raw == "" {
		return "", errMissingToken
	}
	if cfg == nil {
		return "", errors.New("auth middleware not initialized")
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errBadToken
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer(TokenIssuer), jwt.WithAudience(TokenAudience))
	if err != nil || !token.Valid {
		return "", errBadToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return "", errBadToken
	}
	return sub, nil
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errBadToken
	}
	return strings.TrimSpace(parts[1]), nil
}

func setCaller(c *fiber.Ctx, userID string) {
	c.Locals(LocalUserID, userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

func unauthorized(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(""))
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	raw, err := bearerToken(c)
	if err != nil {
		return unauthorized(c)
	}
	userID, err := ParseToken(raw)
	if err != nil {
		return unauthorized(c)
	}
	setCaller(c, userID)
	return c.Next()
}

// OptionalAuth resolves the caller when a valid token is present and lets anonymous requests through.
func OptionalAuth(c *fiber.Ctx) error {
	if raw, err := bearerToken(c); err == nil {
		if userID, err := ParseToken(raw); err == nil {
			setCaller(c, userID)
		}
	}
	return c.Next()
}

// WebSocketAuthRequired accepts the token from the `token` query parameter, falling back to the header.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	raw := c.Query("token")
	if raw == "" {
		var err error
		if raw, err = bearerToken(c); err != nil {
			return unauthorized(c)
		}
	}
	userID, err := ParseToken(raw)
	if err != nil {
		return unauthorized(c)
	}
	setCaller(c, userID)
	return c.Next()
}

// CallerID returns the authenticated caller for the request, or "" when anonymous.
func CallerID(c *fiber.Ctx) string {
	if uid, ok := c.Locals(LocalUserID).(string); ok {
		return uid
	}
	return ""
}
