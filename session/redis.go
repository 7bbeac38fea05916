package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// RedisKeyPrefix namespaces session documents.
	RedisKeyPrefix = "split:session:"

	// LockKeyPrefix namespaces per-session update locks.
	LockKeyPrefix = "split:lock:"

	// LockTimeout releases a lock left behind by a crashed writer.
	LockTimeout = 5 * time.Second
)

// RedisStore keeps sessions as JSON documents that expire with the session.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	data, ttl, err := r.encode(s)
	if err != nil {
		return err
	}
	created, err := r.rdb.SetNX(ctx, RedisKeyPrefix+s.ID, data, ttl).Result()
	if err != nil {
		return fmt.Errorf("create session %s: %w", s.ID, err)
	}
	if !created {
		return ErrExists
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.rdb.Get(ctx, RedisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if s.expired(r.now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Update holds a per-session lock while fn runs. A concurrent Update on the
// same session fails with ErrBusy instead of waiting.
func (r *RedisStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	lockKey := LockKeyPrefix + id
	acquired, err := r.rdb.SetNX(ctx, lockKey, "processing", LockTimeout).Result()
	if err != nil {
		return nil, fmt.Errorf("lock session %s: %w", id, err)
	}
	if !acquired {
		return nil, ErrBusy
	}
	defer r.rdb.Del(context.WithoutCancel(ctx), lockKey)

	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}

	data, ttl, err := r.encode(s)
	if err != nil {
		return nil, err
	}
	if err := r.rdb.Set(ctx, RedisKeyPrefix+id, data, ttl).Err(); err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, RedisKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) encode(s *Session) ([]byte, time.Duration, error) {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil, 0, ErrNotFound
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, 0, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	return data, ttl, nil
}
