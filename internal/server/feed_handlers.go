package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetGlobalFeed handles GET /api/posts
func (s *Server) GetGlobalFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	posts, err := s.feedService.GlobalFeed(c.Context(), page.Limit, page.Offset, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetAuthorFeed handles GET /api/posts/author/:username
func (s *Server) GetAuthorFeed(c *fiber.Ctx) error {
	username := c.Params("username")
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	posts, err := s.feedService.AuthorFeed(c.Context(), username, page.Limit, page.Offset, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetLikedFeed handles GET /api/posts/liked/me
func (s *Server) GetLikedFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	posts, err := s.feedService.LikedFeed(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetFollowingFeed handles GET /api/posts/following/me
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	posts, err := s.feedService.FollowingFeed(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}
