package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/turnos/internal/domain/booking"
)

// SessionStore keeps booking flows as JSON under a per-business key.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(businessID uint, id string) string {
	return fmt.Sprintf("booking:%d:%s", businessID, id)
}

// Load returns (nil, nil) when the session does not exist or expired.
func (s *SessionStore) Load(ctx context.Context, businessID uint, id string) (*booking.Flow, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(businessID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var f booking.Flow
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Save writes the flow and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, businessID uint, id string, f *booking.Flow) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(businessID, id), raw, s.ttl).Err()
}
