package logto

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
)

// Session is the server-side record behind the logto:session cookie. While
// a sign-in is pending only the PKCE fields are set.
type Session struct {
	ID string `json:"id"`

	State            string `json:"state,omitempty"`
	CodeVerifier     string `json:"codeVerifier,omitempty"`
	PostSignInTarget string `json:"postSignInTarget,omitempty"`

	AccessToken  string    `json:"accessToken,omitempty"`
	IDToken      string    `json:"idToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	UserInfo     *UserInfo `json:"userInfo,omitempty"`
}

func (s *Session) pending() bool { return s.AccessToken == "" && s.State != "" }

// SessionStore persists sessions by id.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, bool, error)
	Put(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions as JSON under logto:session:<id>.
type RedisSessionStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, prefix: "logto:session:"}
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, bool, error) {
	var sess Session
	ok, err := helpers.RedisGetJSON(ctx, s.rdb, s.prefix+id, &sess)
	if err != nil || !ok {
		return nil, false, err
	}
	return &sess, true, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, sess *Session, ttl time.Duration) error {
	return helpers.RedisSetJSON(ctx, s.rdb, s.prefix+sess.ID, sess, ttl)
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return helpers.RedisDel(ctx, s.rdb, s.prefix+id)
}

// MemorySessionStore is a process-local store for development and tests.
type MemorySessionStore struct {
	mu    sync.Mutex
	items map[string]memorySession
	now   func() time.Time
}

type memorySession struct {
	sess      Session
	expiresAt time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{items: make(map[string]memorySession), now: time.Now}
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Session, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && s.now().After(item.expiresAt) {
		delete(s.items, id)
		return nil, false, nil
	}
	sess := item.sess
	return &sess, true, nil
}

func (s *MemorySessionStore) Put(ctx context.Context, sess *Session, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	item := memorySession{sess: *sess}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}
	s.items[sess.ID] = item
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	_ = ctx
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

var (
	_ SessionStore = (*RedisSessionStore)(nil)
	_ SessionStore = (*MemorySessionStore)(nil)
)
