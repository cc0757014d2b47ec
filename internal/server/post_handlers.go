package server

import (
	"plume/internal/models"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Text  string `json:"text"`
		Media string `json:"media,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID: userID,
		Text:   req.Text,
		Media:  req.Media,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// ToggleLike handles POST /api/posts/:id/like. Liking a liked post unlikes
// it; the response carries the post's like set after the flip.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, err := s.postService.ToggleLike(c.Context(), userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"likes": likes})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: userID,
		PostID: postID,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
