package service

import (
	"context"

	"plume/internal/models"
	"plume/internal/repository"
)

// FeedService assembles the four read-side post collections. Every feed is
// computed against the store at read time; empty results are normal.
type FeedService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewFeedService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// GlobalFeed returns all posts, newest first.
func (s *FeedService) GlobalFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

// AuthorFeed returns the named user's posts, newest first. An unknown
// username is a not-found error, not an empty feed.
func (s *FeedService) AuthorFeed(ctx context.Context, username string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByUserID(ctx, author.ID, limit, offset, currentUserID)
}

// LikedFeed returns the posts the user has liked.
func (s *FeedService) LikedFeed(ctx context.Context, userID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetLikedBy(ctx, userID, userID)
}

// FollowingFeed returns posts authored by users the actor follows, newest
// first. An empty follow set short-circuits without querying posts.
func (s *FeedService) FollowingFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	followeeIDs, err := s.followRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followeeIDs) == 0 {
		return []*models.Post{}, nil
	}
	return s.postRepo.GetByUserIDs(ctx, followeeIDs, limit, offset, userID)
}
