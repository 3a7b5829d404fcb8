package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keremustuner/Case-Study/internal/domain"
	apperrors "github.com/keremustuner/Case-Study/pkg/errors"
)

const keyPrefix = "storefront:session:"

// Store implements session.Store using Redis. Each session is one JSON
// document whose TTL is refreshed on every read and write.
type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New creates a new Redis-backed session store.
func New(client redis.UniversalClient, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a session by ID and resets its TTL.
func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.GetEx(ctx, keyPrefix+id, s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("session", id)
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if sess.Products == nil {
		sess.Products = []domain.ViewProduct{}
	}

	return &sess, nil
}

// Save writes the session with the configured TTL.
func (s *Store) Save(ctx context.Context, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

// Delete removes a session from Redis.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}

	return nil
}
