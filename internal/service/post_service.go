package service

import (
	"context"
	"strings"

	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/storage"

	"gorm.io/gorm"
)

// PostService implements post creation, deletion and the like toggle. It
// holds the *gorm.DB directly because the toggle and the cascade delete are
// multi-record mutations that must run in one transaction.
type PostService struct {
	db       *gorm.DB
	postRepo repository.PostRepository
	assets   storage.AssetStore
}

type CreatePostInput struct {
	UserID uint
	Text   string
	// Media is an inline payload (data URI or bare base64). It is stored
	// through the asset store before the post row exists.
	Media string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(db *gorm.DB, postRepo repository.PostRepository, assets storage.AssetStore) *PostService {
	return &PostService{
		db:       db,
		postRepo: postRepo,
		assets:   assets,
	}
}

const maxPostTextLen = 10000

// CreatePost creates a post carrying text, media, or both. Media is pushed
// to the asset store first; if that fails the post is never created.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" && in.Media == "" {
		return nil, models.NewValidationError("Post must have text or media")
	}
	if len(text) > maxPostTextLen {
		return nil, models.NewValidationError("Text too long (max 10000 characters)")
	}

	var mediaURL string
	if in.Media != "" {
		data, err := storage.DecodeDataURI(in.Media)
		if err != nil {
			return nil, models.NewValidationError("Invalid media payload")
		}
		mediaURL, err = s.assets.Store(ctx, data)
		if err != nil {
			return nil, models.NewExternalServiceError("asset store", err)
		}
	}

	post := &models.Post{
		UserID:   in.UserID,
		Text:     text,
		MediaURL: mediaURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// GetPost returns a single denormalized post.
func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

// ToggleLike flips the actor's like on the post and returns the post's like
// set afterwards. Adding a like also appends a notification to the post
// owner, in the same transaction; a post owner liking their own post
// notifies themselves. Removing a like touches no notifications.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) ([]uint, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	var emitted bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := repository.NewPostRepository(tx)
		liked, err := posts.IsLiked(ctx, userID, postID)
		if err != nil {
			return err
		}
		if liked {
			_, err := posts.Unlike(ctx, userID, postID)
			return err
		}
		added, err := posts.Like(ctx, userID, postID)
		if err != nil {
			return err
		}
		// A concurrent toggle may have inserted the row first; the unique
		// index makes that a no-op and nobody gets notified twice.
		if !added {
			return nil
		}
		notifications := repository.NewNotificationRepository(tx)
		if err := notifications.Create(ctx, &models.Notification{
			FromID: userID,
			ToID:   post.UserID,
			Type:   models.NotificationTypeLike,
		}); err != nil {
			return err
		}
		emitted = true
		return nil
	})
	if err != nil {
		if _, ok := err.(*models.AppError); ok {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}
	if emitted {
		middleware.NotificationsEmitted.WithLabelValues(string(models.NotificationTypeLike)).Inc()
	}

	return s.postRepo.LikerIDs(ctx, postID)
}

// DeletePost removes the post plus its comments and likes. Only the owner
// may delete; the stored media asset is destroyed first, and notifications
// the post produced are left in place.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	if post.MediaURL != "" {
		if err := s.assets.Remove(ctx, post.MediaURL); err != nil {
			return models.NewExternalServiceError("asset store", err)
		}
	}

	return s.postRepo.DeleteCascade(ctx, in.PostID)
}
