package server

import (
	"plume/internal/models"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	users, err := s.userService.ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me. Usernames are immutable.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		FullName string `json:"full_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:   userID,
		FullName: req.FullName,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	currentUserID := c.Locals("userID").(uint)

	profile, err := s.userService.GetProfile(c.Context(), username, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// FollowUser handles POST /api/users/:username/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	username := c.Params("username")
	userID := c.Locals("userID").(uint)

	if err := s.userService.Follow(c.Context(), userID, username); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Following " + username})
}

// UnfollowUser handles DELETE /api/users/:username/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	username := c.Params("username")
	userID := c.Locals("userID").(uint)

	if err := s.userService.Unfollow(c.Context(), userID, username); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed " + username})
}
