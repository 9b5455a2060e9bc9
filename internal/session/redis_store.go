package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session under session:<token> with a TTL equal
// to its remaining lifetime, plus a per-user index set used for bulk
// revocation (logout everywhere, password change).
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
	}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) userKey(userID string) string {
	return "user_sessions:" + userID
}

func (r *RedisStore) Create(ctx context.Context, s Session) error {
	if s.Token == "" || s.UserID == "" {
		return fmt.Errorf("session: missing token or user_id")
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(s.Token), data, ttl)
	pipe.SAdd(ctx, r.userKey(s.UserID), s.Token)
	// The index outlives the longest session slightly; stale members
	// are skipped on read because their session keys are gone.
	pipe.Expire(ctx, r.userKey(s.UserID), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(token)).Result()
	if err == redis.Nil {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	if s.Expired(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	s, err := r.Get(ctx, token)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key(token))
	if s != nil {
		pipe.SRem(ctx, r.userKey(s.UserID), token)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) DeleteAllForUser(ctx context.Context, userID string) error {
	return r.deleteForUser(ctx, userID, "")
}

func (r *RedisStore) DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) error {
	return r.deleteForUser(ctx, userID, keepToken)
}

func (r *RedisStore) deleteForUser(ctx context.Context, userID, keepToken string) error {
	tokens, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := r.client.TxPipeline()
	for _, token := range tokens {
		if token == keepToken {
			continue
		}
		pipe.Del(ctx, r.key(token))
		pipe.SRem(ctx, r.userKey(userID), token)
	}
	if keepToken == "" {
		pipe.Del(ctx, r.userKey(userID))
	}
	_, err = pipe.Exec(ctx)
	return err
}
