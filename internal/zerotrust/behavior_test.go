package zerotrust

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sentinelmail/sentinel/internal/core"
)

func contextAt(hour int, ip, device, location string) core.SecurityContext {
	return core.SecurityContext{
		IPAddress: ip,
		DeviceID:  device,
		Location:  location,
		Timestamp: time.Date(2026, 8, 25, hour, 0, 0, 0, time.UTC),
	}
}

func TestUnknownIdentityScoresNeutral(t *testing.T) {
	s := NewBaselineScorer()

	risk := s.Risk("nobody", contextAt(9, "10.0.0.1", "laptop-1", "office"))

	assert.Equal(t, unknownIdentityRisk, risk)
}

func TestLearnedContextScoresLow(t *testing.T) {
	s := NewBaselineScorer()
	usual := contextAt(9, "10.0.0.1", "laptop-1", "office")

	for i := 0; i < 8; i++ {
		s.Learn("alice", usual)
	}

	assert.Less(t, s.Risk("alice", usual), 0.1)
}

func TestAnomalousContextScoresHigh(t *testing.T) {
	s := NewBaselineScorer()
	usual := contextAt(9, "10.0.0.1", "laptop-1", "office")
	for i := 0; i < 8; i++ {
		s.Learn("alice", usual)
	}

	// Opposite hour, new address, new device, new location: every
	// component is maximally novel.
	odd := contextAt(21, "198.51.100.7", "phone-9", "airport")
	assert.Equal(t, 1.0, s.Risk("alice", odd))
}

func TestHourDistanceIsCircular(t *testing.T) {
	s := NewBaselineScorer()
	usual := contextAt(23, "10.0.0.1", "laptop-1", "office")
	for i := 0; i < 8; i++ {
		s.Learn("alice", usual)
	}

	// 01:00 is two hours from 23:00, not twenty-two.
	nearMidnight := contextAt(1, "10.0.0.1", "laptop-1", "office")
	risk := s.Risk("alice", nearMidnight)
	assert.Less(t, risk, 0.15)
}

func TestRecentObservationsDominate(t *testing.T) {
	s := NewBaselineScorer()
	old := contextAt(9, "10.0.0.1", "laptop-1", "office")
	fresh := contextAt(9, "10.0.0.2", "laptop-2", "home")

	for i := 0; i < 8; i++ {
		s.Learn("alice", old)
	}
	for i := 0; i < 8; i++ {
		s.Learn("alice", fresh)
	}

	assert.Less(t, s.Risk("alice", fresh), s.Risk("alice", old))
}
