package checkout

import (
	"context"
	"testing"

	"telvia/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPendingStore(t *testing.T) *RedisPendingStore {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisPendingStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func samplePending() models.PendingPurchase {
	return models.PendingPurchase{
		ServiceType:  models.ServiceHostedPBX,
		PartnerID:    7,
		Email:        "billing@meghna.example",
		PackageID:    "bronze",
		PackageIDInt: 9132,
		PackageName:  "Bronze",
		Price:        1200,
	}
}

func TestPendingConsumeIsOneShot(t *testing.T) {
	store := newTestPendingStore(t)
	ctx := context.Background()

	require.NoError(t, store.Stash(ctx, "tran-1", samplePending()))

	pending, err := store.Consume(ctx, "tran-1")
	require.NoError(t, err)
	assert.Equal(t, models.PendingStateConsumed, pending.State)
	assert.Equal(t, 9132, pending.PackageIDInt)
	assert.False(t, pending.ConsumedAt.IsZero())

	// A replayed callback must not get the record a second time.
	_, err = store.Consume(ctx, "tran-1")
	assert.ErrorIs(t, err, ErrAlreadyConsumed)
}

func TestPendingUnknownReference(t *testing.T) {
	store := newTestPendingStore(t)
	_, err := store.Consume(context.Background(), "never-stashed")
	assert.ErrorIs(t, err, ErrPendingNotFound)
}

func TestPendingDiscard(t *testing.T) {
	store := newTestPendingStore(t)
	ctx := context.Background()

	require.NoError(t, store.Stash(ctx, "tran-2", samplePending()))
	require.NoError(t, store.Discard(ctx, "tran-2"))

	// Discarded is indistinguishable from never stashed, not from consumed.
	_, err := store.Consume(ctx, "tran-2")
	assert.ErrorIs(t, err, ErrPendingNotFound)
}
