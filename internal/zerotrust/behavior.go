package zerotrust

import (
	"math"
	"sync"

	"github.com/sentinelmail/sentinel/internal/core"
)

// learnRate is the exponential update factor: each observation moves
// the baseline this fraction of the way toward the new sample.
const learnRate = 0.3

// unknownIdentityRisk is returned before any baseline exists. A brand
// new identity is neither trusted nor alarming.
const unknownIdentityRisk = 0.5

type baseline struct {
	hourMean  float64
	ips       map[string]float64
	devices   map[string]float64
	locations map[string]float64
	samples   int
}

// BaselineScorer is the default core.BehavioralScorer: a per-identity
// exponential baseline over access hour, source address, device, and
// location, with risk as the normalized distance from that baseline.
type BaselineScorer struct {
	mu        sync.Mutex
	baselines map[string]*baseline
}

// NewBaselineScorer creates an empty scorer.
func NewBaselineScorer() *BaselineScorer {
	return &BaselineScorer{baselines: make(map[string]*baseline)}
}

// Learn folds an observed context into the identity's baseline.
func (s *BaselineScorer) Learn(userID string, sctx core.SecurityContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.baselines[userID]
	if !ok {
		b = &baseline{
			ips:       make(map[string]float64),
			devices:   make(map[string]float64),
			locations: make(map[string]float64),
		}
		s.baselines[userID] = b
	}

	hour := float64(sctx.Timestamp.Hour())
	if b.samples == 0 {
		b.hourMean = hour
	} else {
		b.hourMean = (1-learnRate)*b.hourMean + learnRate*hour
	}

	decayAndBump(b.ips, sctx.IPAddress)
	decayAndBump(b.devices, sctx.DeviceID)
	decayAndBump(b.locations, sctx.Location)
	b.samples++
}

// Risk scores how far a context deviates from the identity's baseline,
// normalized to [0,1].
func (s *BaselineScorer) Risk(userID string, sctx core.SecurityContext) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.baselines[userID]
	if !ok || b.samples == 0 {
		return unknownIdentityRisk
	}

	// Hour distance is circular: 23:00 and 01:00 are two hours apart.
	hour := float64(sctx.Timestamp.Hour())
	hourDelta := math.Abs(hour - b.hourMean)
	if hourDelta > 12 {
		hourDelta = 24 - hourDelta
	}
	hourRisk := hourDelta / 12

	ipRisk := 1 - b.ips[sctx.IPAddress]
	deviceRisk := 1 - b.devices[sctx.DeviceID]
	locationRisk := 1 - b.locations[sctx.Location]

	return core.Clamp01((hourRisk + ipRisk + deviceRisk + locationRisk) / 4)
}

// decayAndBump decays every weight and reinforces the observed key, so
// weights stay in (0,1] and recent observations dominate.
func decayAndBump(weights map[string]float64, key string) {
	for k := range weights {
		weights[k] *= 1 - learnRate
	}
	weights[key] += learnRate
	if weights[key] > 1 {
		weights[key] = 1
	}
}
