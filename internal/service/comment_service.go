package service

import (
	"context"
	"strings"

	"plume/internal/models"
	"plume/internal/repository"
)

// CommentService appends and removes comments. Commenting emits no
// notification, unlike liking.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type AddCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type DeleteCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

const maxCommentLen = 10000

// AddComment appends a comment to the post and returns the post with its
// full comment list in insertion order.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:   text,
		UserID: in.UserID,
		PostID: in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

// DeleteComment removes a single comment. Only the comment's author may
// delete it; owning the post grants nothing. The comment must belong to the
// post named in the request.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.PostID != in.PostID {
		return models.NewNotFoundError("Comment", in.CommentID)
	}
	if comment.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}

	return s.commentRepo.Delete(ctx, in.CommentID)
}
