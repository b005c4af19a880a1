package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"warbler/internal/model"
)

// Memory keeps all entities in-process behind one mutex. It implements every
// repository interface and backs the HTTP tests, where the constraint
// behavior of the Postgres implementations (unique users, unique edges,
// cascading deletes) has to hold without a database.
type Memory struct {
	mu sync.RWMutex

	users    map[int64]model.User
	messages map[int64]model.Message
	follows  map[[2]int64]model.Follow // key: follower, followed
	likes    map[[2]int64]model.Like   // key: user, message

	nextUserID    int64
	nextMessageID int64
}

// NewMemory initializes an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:         make(map[int64]model.User),
		messages:      make(map[int64]model.Message),
		follows:       make(map[[2]int64]model.Follow),
		likes:         make(map[[2]int64]model.Like),
		nextUserID:    1,
		nextMessageID: 1,
	}
}

// --- UserRepository ---

func (m *Memory) Create(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username {
			return model.ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return model.ErrEmailTaken
		}
	}

	u.ID = m.nextUserID
	m.nextUserID++
	u.CreatedAt = time.Now()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (m *Memory) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (m *Memory) Search(ctx context.Context, q string, limit int) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var users []model.User
	q = strings.ToLower(q)
	for _, u := range m.users {
		if q == "" || strings.Contains(strings.ToLower(u.Username), q) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (m *Memory) Update(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.users[u.ID]
	if !ok {
		return model.ErrUserNotFound
	}
	for id, existing := range m.users {
		if id == u.ID {
			continue
		}
		if existing.Username == u.Username {
			return model.ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return model.ErrEmailTaken
		}
	}

	stored.Username = u.Username
	stored.Email = u.Email
	stored.ImageURL = u.ImageURL
	stored.HeaderImageURL = u.HeaderImageURL
	stored.Bio = u.Bio
	stored.Location = u.Location
	m.users[u.ID] = stored
	return nil
}

func (m *Memory) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(m.users, id)

	for msgID, msg := range m.messages {
		if msg.UserID == id {
			m.deleteMessageLocked(msgID)
		}
	}
	for key := range m.follows {
		if key[0] == id || key[1] == id {
			delete(m.follows, key)
		}
	}
	for key := range m.likes {
		if key[0] == id {
			delete(m.likes, key)
		}
	}
	return nil
}

// --- MessageRepository ---

func (m *Memory) CreateMessage(ctx context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg.ID = m.nextMessageID
	m.nextMessageID++
	msg.CreatedAt = time.Now()
	stored := *msg
	stored.Author = nil
	m.messages[msg.ID] = stored
	return nil
}

func (m *Memory) GetMessageByID(ctx context.Context, id int64) (*model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msg, ok := m.messages[id]
	if !ok {
		return nil, model.ErrMessageNotFound
	}
	m.attachAuthorLocked(&msg)
	return &msg, nil
}

func (m *Memory) GetMessagesByIDs(ctx context.Context, ids []int64) ([]model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var messages []model.Message
	for _, id := range ids {
		if msg, ok := m.messages[id]; ok {
			m.attachAuthorLocked(&msg)
			messages = append(messages, msg)
		}
	}
	sortMessagesDesc(messages)
	return messages, nil
}

func (m *Memory) MessagesByUser(ctx context.Context, userID int64, limit int) ([]model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var messages []model.Message
	for _, msg := range m.messages {
		if msg.UserID == userID {
			m.attachAuthorLocked(&msg)
			messages = append(messages, msg)
		}
	}
	sortMessagesDesc(messages)
	return capMessages(messages, limit), nil
}

func (m *Memory) Timeline(ctx context.Context, userID int64, limit int) ([]model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	authors := map[int64]bool{userID: true}
	for key := range m.follows {
		if key[0] == userID {
			authors[key[1]] = true
		}
	}

	var messages []model.Message
	for _, msg := range m.messages {
		if authors[msg.UserID] {
			m.attachAuthorLocked(&msg)
			messages = append(messages, msg)
		}
	}
	sortMessagesDesc(messages)
	return capMessages(messages, limit), nil
}

func (m *Memory) DeleteMessage(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.messages[id]; !ok {
		return model.ErrMessageNotFound
	}
	m.deleteMessageLocked(id)
	return nil
}

func (m *Memory) CountMessagesByUser(ctx context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, msg := range m.messages {
		if msg.UserID == userID {
			count++
		}
	}
	return count, nil
}

// deleteMessageLocked removes a message and cascades to its likes.
func (m *Memory) deleteMessageLocked(id int64) {
	delete(m.messages, id)
	for key := range m.likes {
		if key[1] == id {
			delete(m.likes, key)
		}
	}
}

// --- FollowRepository ---

func (m *Memory) CreateFollow(ctx context.Context, followerID, followedID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]int64{followerID, followedID}
	if _, ok := m.follows[key]; ok {
		return false, nil
	}
	m.follows[key] = model.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Now(),
	}
	return true, nil
}

func (m *Memory) DeleteFollow(ctx context.Context, followerID, followedID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]int64{followerID, followedID}
	if _, ok := m.follows[key]; !ok {
		return model.ErrNotFollowing
	}
	delete(m.follows, key)
	return nil
}

func (m *Memory) FollowExists(ctx context.Context, followerID, followedID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.follows[[2]int64{followerID, followedID}]
	return ok, nil
}

func (m *Memory) Following(ctx context.Context, userID int64) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var users []model.User
	for key := range m.follows {
		if key[0] == userID {
			if u, ok := m.users[key[1]]; ok {
				users = append(users, u)
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *Memory) Followers(ctx context.Context, userID int64) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var users []model.User
	for key := range m.follows {
		if key[1] == userID {
			if u, ok := m.users[key[0]]; ok {
				users = append(users, u)
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *Memory) FollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []int64
	for key := range m.follows {
		if key[1] == userID {
			ids = append(ids, key[0])
		}
	}
	return ids, nil
}

func (m *Memory) CountFollowing(ctx context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for key := range m.follows {
		if key[0] == userID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountFollowers(ctx context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for key := range m.follows {
		if key[1] == userID {
			count++
		}
	}
	return count, nil
}

// --- LikeRepository ---

func (m *Memory) CreateLike(ctx context.Context, userID, messageID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]int64{userID, messageID}
	if _, ok := m.likes[key]; ok {
		return false, nil
	}
	m.likes[key] = model.Like{
		UserID:    userID,
		MessageID: messageID,
		CreatedAt: time.Now(),
	}
	return true, nil
}

func (m *Memory) DeleteLike(ctx context.Context, userID, messageID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]int64{userID, messageID}
	if _, ok := m.likes[key]; !ok {
		return model.ErrNotLiked
	}
	delete(m.likes, key)
	return nil
}

func (m *Memory) LikeExists(ctx context.Context, userID, messageID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.likes[[2]int64{userID, messageID}]
	return ok, nil
}

func (m *Memory) MessagesLikedBy(ctx context.Context, userID int64) ([]model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var messages []model.Message
	for key := range m.likes {
		if key[0] == userID {
			if msg, ok := m.messages[key[1]]; ok {
				m.attachAuthorLocked(&msg)
				messages = append(messages, msg)
			}
		}
	}
	sortMessagesDesc(messages)
	return messages, nil
}

func (m *Memory) CountLikesByUser(ctx context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for key := range m.likes {
		if key[0] == userID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountLikesForMessage(ctx context.Context, messageID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for key := range m.likes {
		if key[1] == messageID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) attachAuthorLocked(msg *model.Message) {
	if u, ok := m.users[msg.UserID]; ok {
		msg.Author = &model.User{ID: u.ID, Username: u.Username, ImageURL: u.ImageURL}
	}
}

func sortMessagesDesc(messages []model.Message) {
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID > messages[j].ID
		}
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
}

func capMessages(messages []model.Message, limit int) []model.Message {
	if limit > 0 && len(messages) > limit {
		return messages[:limit]
	}
	return messages
}

// Interface adapters: Memory carries every entity behind one mutex, so the
// per-interface method sets are exposed through thin views with the method
// names the interfaces expect.

type memoryMessages struct{ *Memory }

func (v memoryMessages) Create(ctx context.Context, msg *model.Message) error {
	return v.CreateMessage(ctx, msg)
}
func (v memoryMessages) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	return v.GetMessageByID(ctx, id)
}
func (v memoryMessages) GetByIDs(ctx context.Context, ids []int64) ([]model.Message, error) {
	return v.GetMessagesByIDs(ctx, ids)
}
func (v memoryMessages) ByUser(ctx context.Context, userID int64, limit int) ([]model.Message, error) {
	return v.MessagesByUser(ctx, userID, limit)
}
func (v memoryMessages) Delete(ctx context.Context, id int64) error {
	return v.DeleteMessage(ctx, id)
}
func (v memoryMessages) CountByUser(ctx context.Context, userID int64) (int, error) {
	return v.CountMessagesByUser(ctx, userID)
}

type memoryFollows struct{ *Memory }

func (v memoryFollows) Create(ctx context.Context, followerID, followedID int64) (bool, error) {
	return v.CreateFollow(ctx, followerID, followedID)
}
func (v memoryFollows) Delete(ctx context.Context, followerID, followedID int64) error {
	return v.DeleteFollow(ctx, followerID, followedID)
}
func (v memoryFollows) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	return v.FollowExists(ctx, followerID, followedID)
}

type memoryLikes struct{ *Memory }

func (v memoryLikes) Create(ctx context.Context, userID, messageID int64) (bool, error) {
	return v.CreateLike(ctx, userID, messageID)
}
func (v memoryLikes) Delete(ctx context.Context, userID, messageID int64) error {
	return v.DeleteLike(ctx, userID, messageID)
}
func (v memoryLikes) Exists(ctx context.Context, userID, messageID int64) (bool, error) {
	return v.LikeExists(ctx, userID, messageID)
}
func (v memoryLikes) CountByUser(ctx context.Context, userID int64) (int, error) {
	return v.CountLikesByUser(ctx, userID)
}
func (v memoryLikes) CountForMessage(ctx context.Context, messageID int64) (int, error) {
	return v.CountLikesForMessage(ctx, messageID)
}

// Users returns the UserRepository view of the store.
func (m *Memory) Users() UserRepository { return m }

// Messages returns the MessageRepository view of the store.
func (m *Memory) Messages() MessageRepository { return memoryMessages{m} }

// Follows returns the FollowRepository view of the store.
func (m *Memory) Follows() FollowRepository { return memoryFollows{m} }

// Likes returns the LikeRepository view of the store.
func (m *Memory) Likes() LikeRepository { return memoryLikes{m} }
