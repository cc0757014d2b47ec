package repository

import (
	"context"

	"plume/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines persistence operations for the follow graph.
type FollowRepository interface {
	// Follow adds the edge; re-following is a no-op and reports false.
	Follow(ctx context.Context, followerID, followeeID uint) (bool, error)
	// Unfollow removes the edge; reports whether an edge was removed.
	Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	// FolloweeIDs returns the IDs the user follows.
	FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	follow := &models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, nil
		}
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
