package service

import (
	"context"
	"encoding/base64"
	"testing"

	"plume/internal/models"
	"plume/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tiny valid payload for inline media uploads.
var testMedia = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

func TestPostService_CreatePost(t *testing.T) {
	db := setupServiceDB(t)
	assets := &assetStoreStub{}
	svc := NewPostService(db, repository.NewPostRepository(db), assets)
	ctx := context.Background()

	alice := createUser(t, db, "alice")

	t.Run("text only", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "hello world"})
		require.NoError(t, err)
		assert.Equal(t, "hello world", post.Text)
		assert.Empty(t, post.MediaURL)
		assert.Equal(t, "alice", post.User.Username)
	})

	t.Run("media only", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Media: testMedia})
		require.NoError(t, err)
		assert.Equal(t, "/media/stub.png", post.MediaURL)
		assert.Len(t, assets.stored, 1)
	})

	t.Run("both empty", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "   "})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	t.Run("garbage media payload", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Media: "data:image/png;base64,!!!"})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	t.Run("asset store failure aborts", func(t *testing.T) {
		failing := &assetStoreStub{storeErr: errStoreDown}
		failSvc := NewPostService(db, repository.NewPostRepository(db), failing)

		var before int64
		db.Model(&models.Post{}).Count(&before)

		_, err := failSvc.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Media: testMedia})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeExternalService, appErr.Code)

		var after int64
		db.Model(&models.Post{}).Count(&after)
		assert.Equal(t, before, after)
	})
}

func TestPostService_ToggleLike(t *testing.T) {
	db := setupServiceDB(t)
	assets := &assetStoreStub{}
	svc := NewPostService(db, repository.NewPostRepository(db), assets)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post, err := svc.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "like me"})
	require.NoError(t, err)

	t.Run("like adds membership and notifies owner", func(t *testing.T) {
		likes, err := svc.ToggleLike(ctx, bob.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{bob.ID}, likes)

		var notifications []models.Notification
		require.NoError(t, db.Where("to_id = ?", alice.ID).Find(&notifications).Error)
		require.Len(t, notifications, 1)
		assert.Equal(t, bob.ID, notifications[0].FromID)
		assert.Equal(t, models.NotificationTypeLike, notifications[0].Type)
	})

	t.Run("unlike removes membership but not the notification", func(t *testing.T) {
		likes, err := svc.ToggleLike(ctx, bob.ID, post.ID)
		require.NoError(t, err)
		assert.Empty(t, likes)

		var count int64
		db.Model(&models.Notification{}).Where("to_id = ?", alice.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("involution restores the like set", func(t *testing.T) {
		first, err := svc.ToggleLike(ctx, bob.ID, post.ID)
		require.NoError(t, err)
		second, err := svc.ToggleLike(ctx, bob.ID, post.ID)
		require.NoError(t, err)
		third, err := svc.ToggleLike(ctx, bob.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, first, third)
		assert.Empty(t, second)
	})

	t.Run("self-like notifies the owner themselves", func(t *testing.T) {
		var before int64
		db.Model(&models.Notification{}).Where("to_id = ? AND from_id = ?", alice.ID, alice.ID).Count(&before)

		_, err := svc.ToggleLike(ctx, alice.ID, post.ID)
		require.NoError(t, err)

		var after int64
		db.Model(&models.Notification{}).Where("to_id = ? AND from_id = ?", alice.ID, alice.ID).Count(&after)
		assert.Equal(t, before+1, after)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.ToggleLike(ctx, bob.ID, 9999)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	db := setupServiceDB(t)
	assets := &assetStoreStub{}
	svc := NewPostService(db, repository.NewPostRepository(db), assets)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	t.Run("only the owner may delete", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "mine"})
		require.NoError(t, err)

		err = svc.DeletePost(ctx, DeletePostInput{UserID: bob.ID, PostID: post.ID})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeUnauthorized, appErr.Code)

		// Nothing was touched.
		var count int64
		db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("cascade removes comments and likes, media is destroyed", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "with media", Media: testMedia})
		require.NoError(t, err)

		_, err = svc.ToggleLike(ctx, bob.ID, post.ID)
		require.NoError(t, err)
		require.NoError(t, db.Create(&models.Comment{Text: "c", UserID: bob.ID, PostID: post.ID}).Error)

		require.NoError(t, svc.DeletePost(ctx, DeletePostInput{UserID: alice.ID, PostID: post.ID}))

		assert.Equal(t, []string{"/media/stub.png"}, assets.removed)

		var likeCount, commentCount, notificationCount int64
		db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount)
		db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)
		db.Model(&models.Notification{}).Count(&notificationCount)
		assert.Zero(t, likeCount)
		assert.Zero(t, commentCount)
		assert.Equal(t, int64(1), notificationCount)
	})

	t.Run("asset failure aborts the delete", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "steady", Media: testMedia})
		require.NoError(t, err)

		assets.remErr = errStoreDown
		defer func() { assets.remErr = nil }()

		err = svc.DeletePost(ctx, DeletePostInput{UserID: alice.ID, PostID: post.ID})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeExternalService, appErr.Code)

		var count int64
		db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("missing post", func(t *testing.T) {
		err := svc.DeletePost(ctx, DeletePostInput{UserID: alice.ID, PostID: 9999})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}
