// Package session tracks logged-in guests and the ordering state each of
// them owns.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned for unknown or expired session ids.
var ErrNoSession = errors.New("session not found")

// Store maps session ids to user names.
type Store interface {
	Create(ctx context.Context, user string) (string, error)
	User(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps sessions in Redis under "session:<id>" with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a Store backed by client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(id string) string {
	return "session:" + id
}

// Create starts a session for user.
func (s *RedisStore) Create(ctx context.Context, user string) (string, error) {
	id := uuid.NewString()
	if err := s.client.Set(ctx, key(id), user, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// User returns the user owning session id.
func (s *RedisStore) User(ctx context.Context, id string) (string, error) {
	user, err := s.client.Get(ctx, key(id)).Result()
	if err == redis.Nil || (err == nil && user == "") {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return user, nil
}

// Delete ends session id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, key(id)).Err()
}

// MemoryStore is a process-local Store for tests and single-node runs.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memorySession
}

type memorySession struct {
	user    string
	expires time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, sessions: make(map[string]memorySession)}
}

// Create starts a session for user.
func (s *MemoryStore) Create(ctx context.Context, user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.sessions[id] = memorySession{user: user, expires: s.now().Add(s.ttl)}
	return id, nil
}

// User returns the user owning session id.
func (s *MemoryStore) User(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return "", ErrNoSession
	}
	if !s.now().Before(sess.expires) {
		delete(s.sessions, id)
		return "", ErrNoSession
	}
	return sess.user, nil
}

// Delete ends session id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
