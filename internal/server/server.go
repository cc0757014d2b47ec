// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"plume/internal/cache"
	"plume/internal/config"
	"plume/internal/database"
	"plume/internal/mailer"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/service"
	"plume/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	commentRepo      repository.CommentRepository
	followRepo       repository.FollowRepository
	notificationRepo repository.NotificationRepository

	assets storage.AssetStore
	mail   mailer.Mailer

	postService         *service.PostService
	commentService      *service.CommentService
	feedService         *service.FeedService
	userService         *service.UserService
	notificationService *service.NotificationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	assets, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("asset store init failed: %w", err)
	}

	var mail mailer.Mailer = mailer.Nop{}
	if cfg.SMTPAddr != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
	}

	return NewServerWithDeps(cfg, db, redisClient, assets, mail)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, assets storage.AssetStore, mail mailer.Mailer) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	prom := middleware.InitMetrics("plume-api")

	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   prom,
		userRepo:         userRepo,
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		followRepo:       followRepo,
		notificationRepo: notificationRepo,
		assets:           assets,
		mail:             mail,
	}
	server.postService = service.NewPostService(db, postRepo, assets)
	server.commentService = service.NewCommentService(commentRepo, postRepo)
	server.feedService = service.NewFeedService(postRepo, userRepo, followRepo)
	server.userService = service.NewUserService(userRepo, followRepo)
	server.notificationService = service.NewNotificationService(notificationRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Plume Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)
	auth.Get("/me", s.AuthRequired(), s.Me)

	// Public post browsing. Registered before the protected group so the
	// AuthRequired use-route at /api never intercepts anonymous reads.
	// /:id is a single segment and cannot match the two-segment feed paths.
	publicPosts := api.Group("/posts")
	publicPosts.Get("/", s.GetGlobalFeed)
	publicPosts.Get("/author/:username", s.GetAuthorFeed)
	publicPosts.Get("/:id", s.GetPost)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Feeds scoped to the authenticated user.
	feeds := protected.Group("/posts")
	feeds.Get("/liked/me", s.GetLikedFeed)
	feeds.Get("/following/me", s.GetFollowingFeed)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/", s.GetAllUsers)
	// Specific /:username/:resource routes BEFORE the generic /:username route
	users.Post("/:username/follow", middleware.RateLimit(
		s.redis, 30, time.Minute, "follow"), s.FollowUser)
	users.Delete("/:username/follow", s.UnfollowUser)
	users.Get("/:username", s.GetUserProfile)

	// Protected post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes BEFORE the generic /:id route
	posts.Post("/:id/like", s.ToggleLike)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.AddComment)
	posts.Delete("/:id/comments/:commentId", s.DeleteComment)
	posts.Delete("/:id", s.DeletePost)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", s.GetNotifications)
	notifications.Delete("/", s.DeleteNotifications)
	notifications.Delete("/:id", s.DeleteNotification)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "plume-api" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "plume-client" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		// Check JTI for revocation
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Token has been revoked"))
				}
			}
			c.Locals("jti", jti)
		}
		if exp, exists := claims["exp"].(float64); exists {
			c.Locals("tokenExp", int64(exp))
		}

		// Store user ID in context
		c.Locals("userID", uint(userID))
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// optionalUserID attempts to extract userID from Authorization header but does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}

	// A revoked token carries no identity, even on public reads.
	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
		if err == nil && isBlacklisted > 0 {
			return 0, false
		}
	}
	return uint(userID), true
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Plume API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
