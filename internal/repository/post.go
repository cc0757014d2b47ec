package repository

import (
	"context"
	"errors"

	"plume/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines persistence operations for posts and their like set.
// A like row is the single source of truth for both the post's like set and
// the liker's liked-post index, so the two stay consistent by construction.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	GetByUserIDs(ctx context.Context, userIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	GetLikedBy(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error)
	// DeleteCascade removes the post together with its comments and likes in
	// one transaction. Notifications already emitted for it are untouched.
	DeleteCascade(ctx context.Context, id uint) error

	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	// Like inserts the membership row; reports false when it already existed.
	Like(ctx context.Context, userID, postID uint) (bool, error)
	// Unlike removes the membership row; reports whether a row was removed.
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
	// LikerIDs returns the post's like set in insertion order.
	LikerIDs(ctx context.Context, postID uint) ([]uint, error)
	// LikedPostIDs returns the user's liked-post index.
	LikedPostIDs(ctx context.Context, userID uint) ([]uint, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyPostDetails adds subqueries to fetch the like count and liked status
// in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked",
			currentUserID)
	}
	return db.Select(selectQuery + ", 0 as liked")
}

// withIdentity preloads the owner and comment authors for denormalized
// responses. Credential fields are stripped by the model's JSON tags.
func withIdentity(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.User")
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := withIdentity(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := withIdentity(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := withIdentity(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByUserIDs(ctx context.Context, userIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if len(userIDs) == 0 {
		return []*models.Post{}, nil
	}
	var posts []*models.Post
	err := withIdentity(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
		Where("posts.user_id IN ?", userIDs).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetLikedBy(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := withIdentity(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC, likes.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Unscoped().Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	like := &models.Like{UserID: userID, PostID: postID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, nil
		}
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *postRepository) LikerIDs(ctx context.Context, postID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *postRepository) LikedPostIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
