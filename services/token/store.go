package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telvia/models"
	"telvia/utils"

	"github.com/go-redis/redis/v8"
)

// ErrSessionExpired marks a session that is absent or past its expiry.
var ErrSessionExpired = errors.New("session expired")

// SessionStore owns the lifecycle of the portal's session tokens. Keys carry
// a TTL aligned to the token's exp, so expiry is enforced by the store itself
// rather than by a client-side timer.
type SessionStore interface {
	Save(ctx context.Context, tokenString string, claims models.TokenClaims) error
	Get(ctx context.Context, tokenString string) (*models.TokenClaims, error)
	Clear(ctx context.Context, tokenString string) error
	SecondsRemaining(ctx context.Context, tokenString string) (int, error)
}

// RedisSessionStore keys sessions by the sha256 of the token so the raw
// credential never lands in Redis.
type RedisSessionStore struct {
	Client *redis.Client
}

// NewRedisSessionStore returns a SessionStore backed by the given client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func sessionKey(tokenString string) string {
	return utils.AuthCachePrefix + utils.HashToken(tokenString)
}

// Save persists the claims until the token's expiry. Saving again for the
// same token overwrites: last writer wins, matching the browser contract.
func (s *RedisSessionStore) Save(ctx context.Context, tokenString string, claims models.TokenClaims) error {
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("cannot save session: token already expired")
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("failed to marshal session claims: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKey(tokenString), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get returns the claims for a live session, or ErrSessionExpired.
func (s *RedisSessionStore) Get(ctx context.Context, tokenString string) (*models.TokenClaims, error) {
	data, err := s.Client.Get(ctx, sessionKey(tokenString)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}
	var claims models.TokenClaims
	if err := json.Unmarshal([]byte(data), &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session claims: %w", err)
	}
	if claims.Expired(time.Now()) {
		// TTL should have removed the key already; treat the race as expiry.
		_ = s.Client.Del(ctx, sessionKey(tokenString)).Err()
		return nil, ErrSessionExpired
	}
	return &claims, nil
}

// Clear removes the session (logout).
func (s *RedisSessionStore) Clear(ctx context.Context, tokenString string) error {
	return s.Client.Del(ctx, sessionKey(tokenString)).Err()
}

// SecondsRemaining is the expiry-aware query client timers are built on.
func (s *RedisSessionStore) SecondsRemaining(ctx context.Context, tokenString string) (int, error) {
	claims, err := s.Get(ctx, tokenString)
	if err != nil {
		return 0, err
	}
	return claims.SecondsRemaining(time.Now()), nil
}
