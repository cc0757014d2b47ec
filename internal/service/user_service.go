package service

import (
	"context"

	"plume/internal/models"
	"plume/internal/repository"
)

// UserService covers profile reads, profile updates and the follow graph.
// Usernames are immutable after signup.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// Profile is a user's public view plus follow-graph counts.
type Profile struct {
	User           *models.User `json:"user"`
	FollowerCount  int64        `json:"follower_count"`
	FollowingCount int64        `json:"following_count"`
	// Following reports whether the viewing user follows this profile.
	Following bool `json:"following"`
}

type UpdateProfileInput struct {
	UserID   uint
	FullName string
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile resolves a username to the user plus follower counts, with the
// viewer's follow relationship when currentUserID is set.
func (s *UserService) GetProfile(ctx context.Context, username string, currentUserID uint) (*Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		User:           user,
		FollowerCount:  followers,
		FollowingCount: following,
	}
	if currentUserID != 0 && currentUserID != user.ID {
		isFollowing, err := s.followRepo.IsFollowing(ctx, currentUserID, user.ID)
		if err != nil {
			return nil, err
		}
		profile.Following = isFollowing
	}
	return profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FullName != "" {
		const maxFullNameLen = 50
		if len(in.FullName) > maxFullNameLen {
			return nil, models.NewValidationError("Full name too long (max 50 characters)")
		}
		user.FullName = in.FullName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Follow adds the follower edge. Following yourself is invalid; following
// someone you already follow is a no-op.
func (s *UserService) Follow(ctx context.Context, followerID uint, username string) error {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if target.ID == followerID {
		return models.NewValidationError("You cannot follow yourself")
	}
	_, err = s.followRepo.Follow(ctx, followerID, target.ID)
	return err
}

// Unfollow removes the follower edge; removing an absent edge is a no-op.
func (s *UserService) Unfollow(ctx context.Context, followerID uint, username string) error {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if target.ID == followerID {
		return models.NewValidationError("You cannot unfollow yourself")
	}
	_, err = s.followRepo.Unfollow(ctx, followerID, target.ID)
	return err
}
