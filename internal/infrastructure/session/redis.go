package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ArticleBot/internal/config"
	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
)

const (
	maxMutateAttempts = 5
	// keys outlive the selection timeout so the expiry render still finds them
	ttlGrace = 30 * time.Second
)

// RedisStore keeps sessions as JSON values with a TTL.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.SessionStore = (*RedisStore)(nil)

// NewRedisClient connects to the configured Redis and pings it.
func NewRedisClient(ctx context.Context, cfg config.SessionConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client redis.UniversalClient, prefix string, timeout time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: timeout + ttlGrace}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Create(ctx context.Context, session domain.SelectionSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (domain.SelectionSession, error) {
	return s.load(ctx, s.client, id)
}

// Mutate runs fn under WATCH and retries when another writer got in first.
func (s *RedisStore) Mutate(ctx context.Context, id string, fn func(*domain.SelectionSession) error) (domain.SelectionSession, error) {
	key := s.key(id)
	var result domain.SelectionSession

	txf := func(tx *redis.Tx) error {
		session, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		result = clone(session)
		if err := fn(&session); err != nil {
			return err
		}
		payload, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, redis.KeepTTL)
			return nil
		})
		if err == nil {
			result = session
		}
		return err
	}

	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return result, err
	}
	return result, fmt.Errorf("mutate session %s: too much contention", id)
}

func (s *RedisStore) Finish(ctx context.Context, id string) (bool, error) {
	removed, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return removed == 1, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) load(ctx context.Context, c getter, id string) (domain.SelectionSession, error) {
	raw, err := c.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SelectionSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.SelectionSession{}, fmt.Errorf("load session: %w", err)
	}

	var session domain.SelectionSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.SelectionSession{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}
