package service

import (
	"context"
	"testing"

	"plume/internal/models"
	"plume/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddComment(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), repository.NewPostRepository(db))
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := &models.Post{UserID: alice.ID, Text: "discuss"}
	require.NoError(t, db.Create(post).Error)

	t.Run("returns the post with comments in order", func(t *testing.T) {
		_, err := svc.AddComment(ctx, AddCommentInput{UserID: bob.ID, PostID: post.ID, Text: "first"})
		require.NoError(t, err)

		got, err := svc.AddComment(ctx, AddCommentInput{UserID: alice.ID, PostID: post.ID, Text: "second"})
		require.NoError(t, err)

		require.Len(t, got.Comments, 2)
		assert.Equal(t, "first", got.Comments[0].Text)
		assert.Equal(t, "bob", got.Comments[0].User.Username)
		assert.Equal(t, "second", got.Comments[1].Text)
		assert.Equal(t, "alice", got.Comments[1].User.Username)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := svc.AddComment(ctx, AddCommentInput{UserID: bob.ID, PostID: post.ID, Text: "  "})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.AddComment(ctx, AddCommentInput{UserID: bob.ID, PostID: 9999, Text: "hello"})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("no notification is emitted for comments", func(t *testing.T) {
		var count int64
		db.Model(&models.Notification{}).Count(&count)
		assert.Zero(t, count)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), repository.NewPostRepository(db))
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := &models.Post{UserID: alice.ID, Text: "discuss"}
	require.NoError(t, db.Create(post).Error)
	otherPost := &models.Post{UserID: alice.ID, Text: "other"}
	require.NoError(t, db.Create(otherPost).Error)

	comment := &models.Comment{Text: "by bob", UserID: bob.ID, PostID: post.ID}
	require.NoError(t, db.Create(comment).Error)

	t.Run("post owner may not delete another author's comment", func(t *testing.T) {
		err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: alice.ID, PostID: post.ID, CommentID: comment.ID})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeUnauthorized, appErr.Code)
	})

	t.Run("comment must belong to the named post", func(t *testing.T) {
		err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: bob.ID, PostID: otherPost.ID, CommentID: comment.ID})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("author deletes exactly their comment", func(t *testing.T) {
		second := &models.Comment{Text: "also bob", UserID: bob.ID, PostID: post.ID}
		require.NoError(t, db.Create(second).Error)

		require.NoError(t, svc.DeleteComment(ctx, DeleteCommentInput{UserID: bob.ID, PostID: post.ID, CommentID: comment.ID}))

		var remaining []models.Comment
		require.NoError(t, db.Where("post_id = ?", post.ID).Find(&remaining).Error)
		require.Len(t, remaining, 1)
		assert.Equal(t, second.ID, remaining[0].ID)
	})

	t.Run("second delete is not found", func(t *testing.T) {
		err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: bob.ID, PostID: post.ID, CommentID: comment.ID})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}
