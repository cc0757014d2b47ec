package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"plume/internal/config"
	"plume/internal/mailer"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testAssetStore satisfies storage.AssetStore without touching the filesystem.
type testAssetStore struct {
	removed []string
}

func (s *testAssetStore) Store(ctx context.Context, data []byte) (string, error) {
	return "/media/test-asset.png", nil
}

func (s *testAssetStore) Remove(ctx context.Context, ref string) error {
	s.removed = append(s.removed, ref)
	return nil
}

// newTestServer wires a Server over an in-memory database with routes
// registered. Redis is absent, so token revocation and rate limiting are
// pass-through.
func newTestServer(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
	))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	assets := &testAssetStore{}
	s := &Server{
		config:           &config.Config{JWTSecret: "test_secret", Env: "test"},
		db:               db,
		userRepo:         userRepo,
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		followRepo:       followRepo,
		notificationRepo: notificationRepo,
		assets:           assets,
		mail:             mailer.Nop{},
	}
	s.postService = service.NewPostService(db, postRepo, assets)
	s.commentService = service.NewCommentService(commentRepo, postRepo)
	s.feedService = service.NewFeedService(postRepo, userRepo, followRepo)
	s.userService = service.NewUserService(userRepo, followRepo)
	s.notificationService = service.NewNotificationService(notificationRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s
}

// signupTestUser registers a user through the API and returns their token.
func signupTestUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username":  username,
		"full_name": "Test " + username,
		"email":     username + "@example.com",
		"password":  "Password123!",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var parsed struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Token)
	return parsed.Token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestLikeFlow(t *testing.T) {
	app, _ := newTestServer(t)
	aliceToken := signupTestUser(t, app, "alice")
	bobToken := signupTestUser(t, app, "bob")

	// Alice posts.
	resp := doJSON(t, app, http.MethodPost, "/api/posts/", aliceToken,
		map[string]string{"text": "hello"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	decodeBody(t, resp, &post)
	require.NotZero(t, post.ID)

	likeURL := fmt.Sprintf("/api/posts/%d/like", post.ID)

	// Bob likes it.
	resp = doJSON(t, app, http.MethodPost, likeURL, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var liked struct {
		Likes []uint `json:"likes"`
	}
	decodeBody(t, resp, &liked)
	assert.Len(t, liked.Likes, 1)

	// Bob's liked feed picks the post up.
	resp = doJSON(t, app, http.MethodGet, "/api/posts/liked/me", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var likedFeed []models.Post
	decodeBody(t, resp, &likedFeed)
	require.Len(t, likedFeed, 1)
	assert.Equal(t, post.ID, likedFeed[0].ID)

	// Alice received exactly one like notification.
	resp = doJSON(t, app, http.MethodGet, "/api/notifications/", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var notifications []models.Notification
	decodeBody(t, resp, &notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeLike, notifications[0].Type)
	assert.Equal(t, "bob", notifications[0].From.Username)

	// A second like toggles it off; the notification stays.
	resp = doJSON(t, app, http.MethodPost, likeURL, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &liked)
	assert.Empty(t, liked.Likes)

	resp = doJSON(t, app, http.MethodGet, "/api/notifications/", aliceToken, nil)
	decodeBody(t, resp, &notifications)
	assert.Len(t, notifications, 1)

	// Deleting the post does not cascade to the notification.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/notifications/", aliceToken, nil)
	decodeBody(t, resp, &notifications)
	assert.Len(t, notifications, 1)
}

func TestCommentFlow(t *testing.T) {
	app, _ := newTestServer(t)
	aliceToken := signupTestUser(t, app, "alice")
	bobToken := signupTestUser(t, app, "bob")

	resp := doJSON(t, app, http.MethodPost, "/api/posts/", aliceToken,
		map[string]string{"text": "discuss"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	decodeBody(t, resp, &post)

	// Bob comments; the response is the post with its comment list.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), bobToken,
		map[string]string{"text": "nice one"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var withComments models.Post
	decodeBody(t, resp, &withComments)
	require.Len(t, withComments.Comments, 1)
	commentID := withComments.Comments[0].ID
	assert.Equal(t, "bob", withComments.Comments[0].User.Username)

	// Commenting emits no notification.
	resp = doJSON(t, app, http.MethodGet, "/api/notifications/", aliceToken, nil)
	var notifications []models.Notification
	decodeBody(t, resp, &notifications)
	assert.Empty(t, notifications)

	deleteURL := fmt.Sprintf("/api/posts/%d/comments/%d", post.ID, commentID)

	// The post owner cannot delete someone else's comment.
	resp = doJSON(t, app, http.MethodDelete, deleteURL, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	// The author can, exactly once.
	resp = doJSON(t, app, http.MethodDelete, deleteURL, bobToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, deleteURL, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestFollowFlow(t *testing.T) {
	app, _ := newTestServer(t)
	aliceToken := signupTestUser(t, app, "alice")
	bobToken := signupTestUser(t, app, "bob")

	resp := doJSON(t, app, http.MethodPost, "/api/posts/", aliceToken,
		map[string]string{"text": "from alice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// Before following, bob's following feed is empty.
	resp = doJSON(t, app, http.MethodGet, "/api/posts/following/me", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feed []models.Post
	decodeBody(t, resp, &feed)
	assert.Empty(t, feed)

	resp = doJSON(t, app, http.MethodPost, "/api/users/alice/follow", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/posts/following/me", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "from alice", feed[0].Text)

	// Profile reflects the relationship.
	resp = doJSON(t, app, http.MethodGet, "/api/users/alice", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile struct {
		FollowerCount int64 `json:"follower_count"`
		Following     bool  `json:"following"`
	}
	decodeBody(t, resp, &profile)
	assert.Equal(t, int64(1), profile.FollowerCount)
	assert.True(t, profile.Following)

	// Following yourself is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/users/alice/follow", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetPost_PublicRead(t *testing.T) {
	app, _ := newTestServer(t)
	aliceToken := signupTestUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/posts/", aliceToken,
		map[string]string{"text": "open to everyone"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	decodeBody(t, resp, &post)

	// No token needed to read a single post.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Post
	decodeBody(t, resp, &fetched)
	assert.Equal(t, post.ID, fetched.ID)
	assert.Equal(t, "open to everyone", fetched.Text)
	assert.False(t, fetched.Liked)

	// Anonymous reads of missing posts stay 404, not 401.
	resp = doJSON(t, app, http.MethodGet, "/api/posts/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	// The per-user feeds under the same prefix still demand a token.
	resp = doJSON(t, app, http.MethodGet, "/api/posts/liked/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/posts/following/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetPost_RevokedTokenCarriesNoIdentity(t *testing.T) {
	app, s := newTestServer(t)
	mr := miniredis.RunT(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.redis.Close() })

	aliceToken := signupTestUser(t, app, "alice")
	bobToken := signupTestUser(t, app, "bob")

	resp := doJSON(t, app, http.MethodPost, "/api/posts/", aliceToken,
		map[string]string{"text": "hello"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	decodeBody(t, resp, &post)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	postURL := fmt.Sprintf("/api/posts/%d", post.ID)

	// Before logout the token personalizes the read.
	resp = doJSON(t, app, http.MethodGet, postURL, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Post
	decodeBody(t, resp, &fetched)
	assert.True(t, fetched.Liked)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// The revoked token is rejected on protected routes and ignored on
	// public ones.
	resp = doJSON(t, app, http.MethodGet, "/api/users/me", bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, postURL, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &fetched)
	assert.False(t, fetched.Liked)
}

func TestAuthRequired_RejectsMissingAndBadTokens(t *testing.T) {
	app, _ := newTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}
