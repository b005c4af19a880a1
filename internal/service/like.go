package service

import (
	"context"
	"errors"
	"log"

	"warbler/internal/model"
	"warbler/internal/repository"
)

// LikeService manages the like edge set between users and messages.
type LikeService struct {
	likeRepo    repository.LikeRepository
	messageRepo repository.MessageRepository
}

func NewLikeService(likeRepo repository.LikeRepository, messageRepo repository.MessageRepository) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		messageRepo: messageRepo,
	}
}

// Toggle flips the like edge for (userID, messageID) and reports whether the
// message is liked afterwards. Users cannot like their own messages.
//
// Concurrency: the insert uses the unique pair constraint, so two toggles
// racing on the same pair cannot produce two rows. A toggle whose insert
// loses the race observes the edge as existing and proceeds as a delete,
// which is exactly what running the two toggles in sequence would do.
func (s *LikeService) Toggle(ctx context.Context, userID, messageID int64) (bool, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return false, err
	}
	if msg.UserID == userID {
		return false, model.ErrOwnMessageLike
	}

	inserted, err := s.likeRepo.Create(ctx, userID, messageID)
	if err != nil {
		return false, err
	}
	if inserted {
		return true, nil
	}

	// Edge already present: toggle off. A concurrent delete getting there
	// first leaves nothing to do.
	if err := s.likeRepo.Delete(ctx, userID, messageID); err != nil {
		if errors.Is(err, model.ErrNotLiked) {
			log.Printf("[LikeService] Toggle raced a concurrent unlike: user=%d message=%d", userID, messageID)
			return false, nil
		}
		return false, err
	}

	return false, nil
}

// IsLiked reports whether userID has liked messageID.
func (s *LikeService) IsLiked(ctx context.Context, userID, messageID int64) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, messageID)
}

// MessagesLikedBy lists the messages userID has liked, most recent like first.
func (s *LikeService) MessagesLikedBy(ctx context.Context, userID int64) ([]model.Message, error) {
	return s.likeRepo.MessagesLikedBy(ctx, userID)
}

// CountForMessage returns the number of likes on a message.
func (s *LikeService) CountForMessage(ctx context.Context, messageID int64) (int, error) {
	return s.likeRepo.CountForMessage(ctx, messageID)
}
