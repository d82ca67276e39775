package reputation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUnknownSenderGetsNeutralScore(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())

	score, err := store.Get(context.Background(), "stranger@example.com")

	require.NoError(t, err)
	assert.Equal(t, DefaultScore, score)
}

func TestUpdateRoundTrip(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "alice@example.com", 0.9))

	score, err := store.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0.9, score)
}

func TestUpdateClampsOutOfRangeScores(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "high@example.com", 5.0))
	require.NoError(t, store.Update(ctx, "low@example.com", -5.0))

	score, err := store.Get(ctx, "high@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	score, err = store.Get(ctx, "low@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestCloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
