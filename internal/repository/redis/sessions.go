package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps checkout sessions as JSON values with a TTL. Sessions
// are ephemeral: an abandoned checkout simply expires.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Save stores the session and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, sessionID string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, KeySession(sessionID), b, s.ttl).Err()
}

// Load reads the session into dst, reporting whether it exists.
func (s *SessionStore) Load(ctx context.Context, sessionID string, dst any) (bool, error) {
	b, err := s.rdb.Get(ctx, KeySession(sessionID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}

	return true, nil
}

// Delete discards the session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, KeySession(sessionID)).Err()
}
