// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"plume/internal/models"
	"plume/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateFullName(req.FullName); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Both identifiers must be free.
	existing, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return respondServiceError(c, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Email already in use"))
	}
	if _, err := s.userRepo.GetByUsername(c.Context(), req.Username); err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Username already taken"))
	} else if appErr, ok := err.(*models.AppError); !ok || appErr.Code != models.CodeNotFound {
		return respondServiceError(c, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if createErr := s.userRepo.Create(c.Context(), user); createErr != nil {
		// The pre-checks race with concurrent signups; the unique indexes
		// are what actually enforces this.
		return respondServiceError(c, createErr)
	}

	// Mail delivery is best-effort; a down relay never fails a signup.
	if mailErr := s.mail.SendWelcome(c.Context(), user.Email, user.Username); mailErr != nil {
		slog.WarnContext(c.UserContext(), "welcome mail failed",
			"user_id", user.ID, "error", mailErr)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return respondServiceError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (s *Server) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals("jti").(string)
	if jti != "" && s.redis != nil {
		ttl := 7 * 24 * time.Hour
		if exp, ok := c.Locals("tokenExp").(int64); ok {
			if remaining := time.Until(time.Unix(exp, 0)); remaining > 0 {
				ttl = remaining
			}
		}
		if err := s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl).Err(); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me handles GET /api/auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "plume-api",
		"aud":      "plume-client",
		"exp":      now.Add(time.Hour * 24 * 7).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
