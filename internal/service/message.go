package service

import (
	"context"
	"log"
	"strings"

	"warbler/internal/cache"
	"warbler/internal/model"
	"warbler/internal/repository"
)

// MessageService handles warble creation, lookup and owner-gated deletion.
type MessageService struct {
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
	timelines   cache.TimelineCache // nil when caching is disabled
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	followRepo repository.FollowRepository,
	timelines cache.TimelineCache,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		followRepo:  followRepo,
		timelines:   timelines,
	}
}

func (s *MessageService) Create(ctx context.Context, userID int64, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrTextRequired
	}
	if len(text) > model.MaxMessageLength {
		return nil, model.ErrTextTooLong
	}

	msg := &model.Message{
		UserID: userID,
		Text:   text,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.invalidateTimelines(ctx, userID)
	return msg, nil
}

func (s *MessageService) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// Delete removes a message after verifying ownership. Likes on the message
// cascade with it.
func (s *MessageService) Delete(ctx context.Context, messageID, userID int64) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.UserID != userID {
		return model.ErrNotMessageOwner
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	s.invalidateTimelines(ctx, userID)
	return nil
}

// ByUser lists a user's messages, newest first.
func (s *MessageService) ByUser(ctx context.Context, userID int64, limit int) ([]model.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.messageRepo.ByUser(ctx, userID, limit)
}

// invalidateTimelines drops the cached timelines that include this author's
// messages: the author's own and those of everyone following them. Runs
// after the write committed; failures are logged and swallowed because the
// cache self-heals on TTL expiry.
func (s *MessageService) invalidateTimelines(ctx context.Context, authorID int64) {
	if s.timelines == nil {
		return
	}

	ids, err := s.followRepo.FollowerIDs(ctx, authorID)
	if err != nil {
		log.Printf("[MessageService] Failed to resolve followers for cache invalidation: author=%d err=%v", authorID, err)
		ids = nil
	}
	ids = append(ids, authorID)

	if err := s.timelines.Invalidate(ctx, ids); err != nil {
		log.Printf("[MessageService] Failed to invalidate timelines: author=%d err=%v", authorID, err)
	}
}
