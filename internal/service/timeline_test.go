package service

import (
	"context"
	"errors"
	"testing"

	"warbler/internal/repository"
)

func TestTimelineService_Home_OwnAndFollowedMessages(t *testing.T) {
	store := repository.NewMemory()
	messages := NewMessageService(store.Messages(), store.Follows(), nil)
	follows := NewFollowService(store.Follows(), store.Users())
	svc := NewTimelineService(store.Messages(), nil)
	ctx := context.Background()
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")
	carol := newTestUser(t, store, "carol")

	if err := follows.Follow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	if _, err := messages.Create(ctx, alice.ID, "from alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := messages.Create(ctx, bob.ID, "from bob"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := messages.Create(ctx, carol.ID, "from carol"); err != nil {
		t.Fatalf("create: %v", err)
	}

	timeline, err := svc.Home(ctx, alice.ID)
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("timeline has %d messages, want 2", len(timeline))
	}
	// Carol is not followed; her message stays out.
	for _, msg := range timeline {
		if msg.UserID == carol.ID {
			t.Error("timeline includes a message from an unfollowed user")
		}
	}
}

func TestTimelineService_Home_WarmsCacheAndHits(t *testing.T) {
	store := repository.NewMemory()
	messages := NewMessageService(store.Messages(), store.Follows(), nil)
	timelines := newFakeTimelineCache()
	svc := NewTimelineService(store.Messages(), timelines)
	ctx := context.Background()
	alice := newTestUser(t, store, "alice")

	msg, err := messages.Create(ctx, alice.ID, "cache me")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// First read misses and warms the cache.
	timeline, err := svc.Home(ctx, alice.ID)
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if len(timeline) != 1 {
		t.Fatalf("timeline has %d messages, want 1", len(timeline))
	}
	if timelines.setCalls != 1 {
		t.Errorf("Set called %d times, want 1", timelines.setCalls)
	}

	// Second read hits: the messages come back hydrated from the cached IDs.
	timeline, err = svc.Home(ctx, alice.ID)
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if len(timeline) != 1 || timeline[0].ID != msg.ID {
		t.Errorf("cached timeline = %v, want message %d", timeline, msg.ID)
	}
	if timelines.setCalls != 1 {
		t.Errorf("cache hit should not re-warm, Set called %d times", timelines.setCalls)
	}
}

func TestTimelineService_Home_CacheErrorFallsBack(t *testing.T) {
	store := repository.NewMemory()
	messages := NewMessageService(store.Messages(), store.Follows(), nil)
	timelines := newFakeTimelineCache()
	timelines.getErr = errors.New("connection refused")
	svc := NewTimelineService(store.Messages(), timelines)
	ctx := context.Background()
	alice := newTestUser(t, store, "alice")

	if _, err := messages.Create(ctx, alice.ID, "still served"); err != nil {
		t.Fatalf("create: %v", err)
	}

	timeline, err := svc.Home(ctx, alice.ID)
	if err != nil {
		t.Fatalf("a cache failure must not fail the request: %v", err)
	}
	if len(timeline) != 1 {
		t.Errorf("timeline has %d messages, want 1 from the database fallback", len(timeline))
	}
}
