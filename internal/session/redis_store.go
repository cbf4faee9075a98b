package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client     *redis.Client
	prefix     string
	authPrefix string
}

var (
	_ Store              = (*RedisStore)(nil)
	_ AuthorizationStore = (*RedisStore)(nil)
)

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:     client,
		prefix:     "session:",
		authPrefix: "oauth_state:",
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) authKey(state string) string {
	return r.authPrefix + state
}

func (r *RedisStore) Create(ctx context.Context, s Session) error {
	if s.SessionID == "" || s.UserID == "" {
		return errMissingIDs
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return errExpired
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(s.SessionID), data, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("session: id collision")
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}

func (r *RedisStore) SaveAuthorization(ctx context.Context, a Authorization) error {
	if a.State == "" {
		return fmt.Errorf("session: missing state")
	}

	ttl := time.Until(a.ExpiresAt)
	if ttl <= 0 {
		return errExpired
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("session: failed to marshal authorization: %w", err)
	}

	return r.client.Set(ctx, r.authKey(a.State), data, ttl).Err()
}

// ConsumeAuthorization uses GETDEL so concurrent callbacks carrying the
// same state cannot both succeed.
func (r *RedisStore) ConsumeAuthorization(ctx context.Context, state string) (*Authorization, error) {
	val, err := r.client.GetDel(ctx, r.authKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var a Authorization
	if err := json.Unmarshal([]byte(val), &a); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal authorization: %w", err)
	}

	return &a, nil
}
