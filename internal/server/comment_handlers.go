package server

import (
	"plume/internal/models"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /api/posts/:id/comments and responds with the
// post including its full comment list.
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.commentService.AddComment(c.Context(), service.AddCommentInput{
		UserID: userID,
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    userID,
		PostID:    postID,
		CommentID: commentID,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
