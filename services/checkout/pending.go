package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telvia/models"
	"telvia/utils"

	"github.com/go-redis/redis/v8"
)

// PendingStore is the one-shot handoff between checkout and the payment
// callback. Stash writes the purchase intent before the browser leaves for
// the gateway; Consume hands it back exactly once.
type PendingStore interface {
	Stash(ctx context.Context, transactionID string, pending models.PendingPurchase) error
	Consume(ctx context.Context, transactionID string) (*models.PendingPurchase, error)
	Discard(ctx context.Context, transactionID string) error
}

// RedisPendingStore implements PendingStore on a dedicated Redis database.
type RedisPendingStore struct {
	Client *redis.Client
}

// NewRedisPendingStore returns a PendingStore backed by the given client.
func NewRedisPendingStore(client *redis.Client) *RedisPendingStore {
	return &RedisPendingStore{Client: client}
}

func pendingKey(transactionID string) string {
	return utils.PendingPurchasePrefix + transactionID
}

func consumedKey(transactionID string) string {
	return utils.PendingPurchasePrefix + "consumed:" + transactionID
}

// Stash writes the intent with a TTL bounding the gateway round trip.
func (s *RedisPendingStore) Stash(ctx context.Context, transactionID string, pending models.PendingPurchase) error {
	pending.State = models.PendingStatePending
	pending.CreatedAt = time.Now()
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending purchase: %w", err)
	}
	if err := s.Client.Set(ctx, pendingKey(transactionID), data, utils.PendingPurchaseTTL).Err(); err != nil {
		return fmt.Errorf("failed to stash pending purchase: %w", err)
	}
	return nil
}

// Consume atomically removes and returns the intent. A second call for the
// same reference gets ErrAlreadyConsumed; a reference that was never stashed
// gets ErrPendingNotFound.
func (s *RedisPendingStore) Consume(ctx context.Context, transactionID string) (*models.PendingPurchase, error) {
	data, err := s.Client.GetDel(ctx, pendingKey(transactionID)).Result()
	if err != nil {
		if err == redis.Nil {
			exists, tombErr := s.Client.Exists(ctx, consumedKey(transactionID)).Result()
			if tombErr == nil && exists > 0 {
				return nil, ErrAlreadyConsumed
			}
			return nil, ErrPendingNotFound
		}
		return nil, fmt.Errorf("failed to consume pending purchase: %w", err)
	}

	var pending models.PendingPurchase
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending purchase: %w", err)
	}
	pending.State = models.PendingStateConsumed
	pending.ConsumedAt = time.Now()

	// Tombstone so a replayed callback is distinguishable from garbage.
	if err := s.Client.Set(ctx, consumedKey(transactionID), "1", utils.ConsumedTombstoneTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to mark pending purchase consumed: %w", err)
	}
	return &pending, nil
}

// Discard drops the intent without consuming it (failed or cancelled payment).
func (s *RedisPendingStore) Discard(ctx context.Context, transactionID string) error {
	return s.Client.Del(ctx, pendingKey(transactionID)).Err()
}
