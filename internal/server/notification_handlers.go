package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	notifications, err := s.notificationService.ListForUser(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(notifications)
}

// DeleteNotifications handles DELETE /api/notifications
func (s *Server) DeleteNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.notificationService.DeleteAllForUser(c.Context(), userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteNotification handles DELETE /api/notifications/:id
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.DeleteOneForUser(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
