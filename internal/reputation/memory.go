// Package reputation implements the sender reputation store: a persisted
// trust score per sender identity in [0,1], defaulting to 0.5 for
// senders that have never been seen.
package reputation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/core"
)

// DefaultScore is the neutral reputation assigned to unseen senders.
const DefaultScore = 0.5

// MemoryStore is an in-memory implementation of core.ReputationStore.
type MemoryStore struct {
	mu      sync.RWMutex
	scores  map[string]float64
	updated map[string]time.Time
	logger  *zap.Logger
}

// NewMemoryStore creates an in-memory reputation store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		scores:  make(map[string]float64),
		updated: make(map[string]time.Time),
		logger:  logger,
	}
}

// Get retrieves the reputation score for a sender.
func (s *MemoryStore) Get(_ context.Context, sender string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if score, ok := s.scores[sender]; ok {
		return score, nil
	}
	return DefaultScore, nil
}

// Update stores a new score for a sender, clamped to [0,1].
func (s *MemoryStore) Update(_ context.Context, sender string, score float64) error {
	clamped := core.Clamp01(score)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[sender] = clamped
	s.updated[sender] = time.Now()

	s.logger.Debug("Updated sender reputation",
		zap.String("sender", sender),
		zap.Float64("score", clamped))
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
