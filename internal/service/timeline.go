package service

import (
	"context"
	"log"

	"warbler/internal/cache"
	"warbler/internal/model"
	"warbler/internal/repository"
)

// TimelineLimit caps the home timeline at the original application's size.
const TimelineLimit = 100

// TimelineService assembles the home timeline: the latest messages authored
// by the user or anyone they follow. A Redis cache of message IDs sits in
// front of the database query; every cache failure degrades to the query.
type TimelineService struct {
	messageRepo repository.MessageRepository
	timelines   cache.TimelineCache // nil when caching is disabled
}

func NewTimelineService(messageRepo repository.MessageRepository, timelines cache.TimelineCache) *TimelineService {
	return &TimelineService{
		messageRepo: messageRepo,
		timelines:   timelines,
	}
}

// Home returns the user's home timeline, newest first.
func (s *TimelineService) Home(ctx context.Context, userID int64) ([]model.Message, error) {
	if s.timelines != nil {
		ids, ok, err := s.timelines.Get(ctx, userID)
		if err != nil {
			log.Printf("[TimelineService] Cache read failed, falling back to database: user=%d err=%v", userID, err)
		} else if ok {
			messages, err := s.messageRepo.GetByIDs(ctx, ids)
			if err == nil {
				return messages, nil
			}
			log.Printf("[TimelineService] Cache hydration failed, falling back to database: user=%d err=%v", userID, err)
		}
	}

	messages, err := s.messageRepo.Timeline(ctx, userID, TimelineLimit)
	if err != nil {
		return nil, err
	}

	s.warm(ctx, userID, messages)
	return messages, nil
}

// warm writes the freshly computed timeline back to the cache, best-effort.
func (s *TimelineService) warm(ctx context.Context, userID int64, messages []model.Message) {
	if s.timelines == nil || len(messages) == 0 {
		return
	}

	ids := make([]int64, len(messages))
	timestamps := make([]int64, len(messages))
	for i, msg := range messages {
		ids[i] = msg.ID
		timestamps[i] = msg.CreatedAt.Unix()
	}

	if err := s.timelines.Set(ctx, userID, ids, timestamps); err != nil {
		log.Printf("[TimelineService] Cache warm failed: user=%d err=%v", userID, err)
	}
}
