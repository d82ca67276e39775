package core

import (
	"context"
)

// ReputationStore tracks a trust score per sender identity.
type ReputationStore interface {
	// Get retrieves the reputation score for a sender, in [0,1].
	// Unknown senders default to 0.5.
	Get(ctx context.Context, sender string) (float64, error)

	// Update stores a new score for a sender, clamped to [0,1].
	Update(ctx context.Context, sender string, score float64) error

	// Close releases any underlying resources.
	Close() error
}

// ClassifyFunc is the optional AI classification signal consumed by the
// analyzer. Absence of a registered function disables the AI signal
// without failing the aggregation.
type ClassifyFunc func(ctx context.Context, msg *Message) (*SecurityResult, error)

// PolicyFunc is a named security predicate over a message. Returning
// false means the message violates the policy.
type PolicyFunc func(msg *Message) bool

// BehavioralScorer learns a per-identity baseline from observed security
// contexts and scores how far a new context deviates from it. The
// concrete distance metric is a policy choice, so it sits behind this
// interface.
type BehavioralScorer interface {
	// Learn incorporates an observed context into the identity's baseline.
	Learn(userID string, sctx SecurityContext)

	// Risk returns the normalized [0,1] anomaly score of a context
	// against the identity's learned baseline.
	Risk(userID string, sctx SecurityContext) float64
}
