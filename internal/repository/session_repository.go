package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

// SessionRepository stores opaque session tokens in Redis with a TTL. Keys
// are prefixed so tokens share a namespace with nothing else.
type SessionRepository struct {
	client *redis.Client
	prefix string
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(client *redis.Client, prefix string) *SessionRepository {
	return &SessionRepository{client: client, prefix: prefix}
}

func (r *SessionRepository) key(token string) string {
	return r.prefix + token
}

// Create stores the session payload under token for ttl.
func (r *SessionRepository) Create(ctx context.Context, token string, session models.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Get resolves token to its session. An absent or expired token returns
// (nil, nil); only store failures return an error.
func (r *SessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	raw, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete revokes token. Deleting an absent token is not an error.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
