package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// SessionStoreImpl implements domain.SessionStore using Redis. Each session
// has exactly one key holding the {token, user, mode} snapshot; a save
// replaces it wholesale, mirroring how the browser held a single storage key.
type SessionStoreImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore creates a new session store
func NewSessionStore(client *redis.Client, ttl time.Duration) domain.SessionStore {
	return &SessionStoreImpl{
		client: client,
		prefix: "authstate:",
		ttl:    ttl,
	}
}

// Save implements domain.SessionStore
func (r *SessionStoreImpl) Save(ctx context.Context, sessionID string, snap *domain.SessionSnapshot) error {
	key := r.prefix + sessionID
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// Load implements domain.SessionStore
func (r *SessionStoreImpl) Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	key := r.prefix + sessionID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		// A corrupt snapshot is unrecoverable; drop it and report no session.
		r.client.Del(ctx, key)
		return nil, domain.ErrSessionNotFound
	}
	return &snap, nil
}

// Clear implements domain.SessionStore
func (r *SessionStoreImpl) Clear(ctx context.Context, sessionID string) error {
	key := r.prefix + sessionID
	return r.client.Del(ctx, key).Err()
}
