package service

import (
	"context"

	"warbler/internal/model"
	"warbler/internal/repository"
)

// FollowService manages the directed follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow adds the edge follower -> followed. Self-follows are rejected and
// the followed user must exist.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return model.ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}

	inserted, err := s.followRepo.Create(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyFollowing
	}

	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	return s.followRepo.Delete(ctx, followerID, followedID)
}

// IsFollowing reports whether a follows b. Always queries current state.
func (s *FollowService) IsFollowing(ctx context.Context, a, b int64) (bool, error) {
	return s.followRepo.Exists(ctx, a, b)
}

// IsFollowedBy reports whether b follows a.
func (s *FollowService) IsFollowedBy(ctx context.Context, a, b int64) (bool, error) {
	return s.followRepo.Exists(ctx, b, a)
}

// Following lists the users userID follows. The user must exist.
func (s *FollowService) Following(ctx context.Context, userID int64) ([]model.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID)
}

// Followers lists the users following userID. The user must exist.
func (s *FollowService) Followers(ctx context.Context, userID int64) ([]model.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID)
}
