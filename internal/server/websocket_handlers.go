package server

import (
	"encoding/json"

	"nashr/internal/featureflags"
	"nashr/internal/middleware"
	"nashr/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// socketError is the last frame sent before closing a rejected socket.
func socketError(code, message string) []byte {
	body, _ := json.Marshal(models.ErrorResponse{Error: message, Code: code})
	return body
}

// NotificationsWebSocket streams the caller's notifications as they are published.
// The route runs after WebSocketAuthRequired, so the caller is known.
func (s *Server) NotificationsWebSocket() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(middleware.LocalUserID).(string)
		if userID == "" || s.hub == nil {
			_ = conn.WriteMessage(websocket.TextMessage, socketError(models.CodeUnauthorized, "unauthorized"))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("notification socket rejected", "user", userID, "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, socketError(models.CodeConflict, err.Error()))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		userID := getUserID(c)
		if !s.featureFlags.Enabled(featureflags.LiveNotifications, userID) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("اطلاع‌رسانی زنده فعال نیست"))
		}
		if s.hub == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
				Error: "اطلاع‌رسانی زنده در دسترس نیست",
			})
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
