package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sainava/Wiz-Scholar/internal/domain"
)

const (
	redisSessionPrefix  = "sorting:session:"
	redisSessionTTL     = 24 * time.Hour
	redisUpdateAttempts = 5
)

// redisSessionStore keeps sessions as JSON blobs under a TTL. Update uses
// WATCH-based optimistic transactions so concurrent writers on the same id
// never lose answers.
type redisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore wraps client as a SessionStore. Returns nil for a
// nil client so callers can fall back to the memory store.
func NewRedisSessionStore(client *redis.Client) SessionStore {
	if client == nil {
		return nil
	}
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) key(id string) string {
	return redisSessionPrefix + id
}

func (s *redisSessionStore) Put(ctx context.Context, session *domain.SortingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, s.key(session.ID), data, redisSessionTTL).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (*domain.SortingSession, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session domain.SortingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *redisSessionStore) Update(ctx context.Context, id string, fn func(*domain.SortingSession) error) (*domain.SortingSession, error) {
	var updated *domain.SortingSession

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, s.key(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		var session domain.SortingSession
		if err := json.Unmarshal(data, &session); err != nil {
			return fmt.Errorf("decode session: %w", err)
		}
		if err := fn(&session); err != nil {
			return err
		}
		next, err := json.Marshal(&session)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key(id), next, redisSessionTTL)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &session
		return nil
	}

	for attempt := 0; attempt < redisUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txn, s.key(id))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("session %s: too many concurrent updates", id)
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
