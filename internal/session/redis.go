package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"
)

// RedisConfig is the redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore implements Store on redis so several server processes can share
// pending intents.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to redis and checks the server answers.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// makeKey makes a key from a session id.
func (r *RedisStore) makeKey(id string) string {
	return fmt.Sprintf("ledgerbot:session:%s", id)
}

// Put stores entry under id with a TTL.
func (r *RedisStore) Put(ctx context.Context, id string, entry Entry, ttl time.Duration) error {
	raw, err := encode(entry)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.makeKey(id), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns the live entry under id.
func (r *RedisStore) Get(ctx context.Context, id string) (Entry, error) {
	raw, err := r.rdb.Get(ctx, r.makeKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	} else if err != nil {
		return Entry{}, fmt.Errorf("failed to read session: %w", err)
	}
	return decode(raw)
}

// Take reads and deletes the entry inside MULTI/EXEC.
func (r *RedisStore) Take(ctx context.Context, id string) (Entry, error) {
	key := r.makeKey(id)
	var get *redis.StringCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return Entry{}, fmt.Errorf("failed to take session: %w", err)
	}

	raw, err := get.Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	} else if err != nil {
		return Entry{}, fmt.Errorf("failed to take session: %w", err)
	}
	return decode(raw)
}

// Delete removes id.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, r.makeKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
