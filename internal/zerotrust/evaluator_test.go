package zerotrust

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/audit"
	"github.com/sentinelmail/sentinel/internal/core"
)

func newTestEvaluator(opts Options) (*Evaluator, *audit.Log) {
	log := audit.NewLog(50, zap.NewNop())
	return New(nil, log, zap.NewNop(), opts), log
}

func baseContext(userID string) core.SecurityContext {
	return core.SecurityContext{
		UserID:    userID,
		SessionID: "session-1",
		DeviceID:  "laptop-1",
		IPAddress: "10.1.2.3",
		UserAgent: "test-agent/1.0",
		Location:  "office",
		Timestamp: time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC),
	}
}

// establishBaseline makes the identity's usual context look normal to
// the behavioral scorer.
func establishBaseline(e *Evaluator, userID string, sctx core.SecurityContext) {
	for i := 0; i < 8; i++ {
		e.LearnNormalBehavior(userID, sctx)
	}
}

func TestTrustedDeviceWithLearnedBaselineIsGranted(t *testing.T) {
	e, log := newTestEvaluator(Options{})
	sctx := baseContext("alice")
	e.RegisterTrustedDevice("alice", sctx.DeviceID)
	establishBaseline(e, "alice", sctx)

	decision := e.EvaluateAccess(core.AccessRequest{
		UserID:     "alice",
		ResourceID: "mailbox",
		Action:     "read",
		Context:    sctx,
	})

	assert.True(t, decision.Granted)
	assert.Equal(t, core.LevelMinimal, decision.RiskLevel)
	assert.Equal(t, 4*time.Hour, decision.ValidFor)
	assert.Empty(t, decision.RequiredAuth)

	events := log.GetRecent(1)
	require.Len(t, events, 1)
	assert.Equal(t, "access_granted", events[0].EventType)
}

func TestBlacklistedIPAndUnknownDeviceIsDenied(t *testing.T) {
	e, log := newTestEvaluator(Options{BlacklistedIPs: []string{"203.0.113.9"}})
	sctx := baseContext("mallory")
	sctx.IPAddress = "203.0.113.9"

	decision := e.EvaluateAccess(core.AccessRequest{
		UserID:     "mallory",
		ResourceID: "mailbox",
		Action:     "read",
		Context:    sctx,
	})

	// Untrusted device plus blacklisted address plus the unknown
	// identity's neutral anomaly score saturates the risk.
	assert.False(t, decision.Granted)
	assert.Equal(t, core.LevelCritical, decision.RiskLevel)
	assert.Zero(t, decision.ValidFor)
	assert.Contains(t, decision.RequiredAuth, core.VerifyMFA)
	assert.Contains(t, decision.RequiredAuth, core.VerifyDeviceFingerprint)

	events := log.GetRecent(1)
	require.Len(t, events, 1)
	assert.Equal(t, "access_escalated", events[0].EventType)
}

func TestHighRiskRequiresFullStepUp(t *testing.T) {
	e, _ := newTestEvaluator(Options{BlacklistedIPs: []string{"203.0.113.9"}})
	sctx := baseContext("bob")
	sctx.IPAddress = "203.0.113.9"
	e.RegisterTrustedDevice("bob", sctx.DeviceID)

	req := core.AccessRequest{UserID: "bob", ResourceID: "mailbox", Action: "read", Context: sctx}

	decision := e.EvaluateAccess(req)
	assert.False(t, decision.Granted)
	assert.Equal(t, core.LevelHigh, decision.RiskLevel)
	assert.ElementsMatch(t, decision.RequiredAuth,
		[]core.VerificationMethod{core.VerifyMFA, core.VerifyDeviceFingerprint})

	// The same request with both step-up methods active is granted,
	// with the short high-risk validity.
	req.Context.ActiveVerifications = []core.VerificationMethod{
		core.VerifyMFA, core.VerifyDeviceFingerprint,
	}
	decision = e.EvaluateAccess(req)
	assert.True(t, decision.Granted)
	assert.Equal(t, 5*time.Minute, decision.ValidFor)
}

func TestSensitiveTargetRequiresMFAAtMediumRisk(t *testing.T) {
	e, _ := newTestEvaluator(Options{SensitiveResources: []string{"payroll"}})
	sctx := baseContext("carol")

	// Unknown device and identity, clean address: medium risk.
	req := core.AccessRequest{UserID: "carol", ResourceID: "payroll", Action: "read", Context: sctx}

	decision := e.EvaluateAccess(req)
	assert.False(t, decision.Granted)
	assert.Equal(t, core.LevelMedium, decision.RiskLevel)
	assert.Equal(t, []core.VerificationMethod{core.VerifyMFA}, decision.RequiredAuth)

	req.Context.ActiveVerifications = []core.VerificationMethod{core.VerifyMFA}
	decision = e.EvaluateAccess(req)
	assert.True(t, decision.Granted)
	assert.Equal(t, 15*time.Minute, decision.ValidFor)
}

func TestNonSensitiveTargetAtMediumRiskIsGranted(t *testing.T) {
	e, _ := newTestEvaluator(Options{SensitiveActions: []string{"delete"}})
	sctx := baseContext("dave")

	decision := e.EvaluateAccess(core.AccessRequest{
		UserID:     "dave",
		ResourceID: "mailbox",
		Action:     "read",
		Context:    sctx,
	})

	assert.True(t, decision.Granted)
	assert.Equal(t, core.LevelMedium, decision.RiskLevel)
	assert.Equal(t, 15*time.Minute, decision.ValidFor)
}

func TestCarriedThreatLevelDominates(t *testing.T) {
	e, _ := newTestEvaluator(Options{})
	sctx := baseContext("erin")
	sctx.ThreatLevel = core.LevelCritical
	e.RegisterTrustedDevice("erin", sctx.DeviceID)
	establishBaseline(e, "erin", sctx)

	decision := e.EvaluateAccess(core.AccessRequest{
		UserID:     "erin",
		ResourceID: "mailbox",
		Action:     "read",
		Context:    sctx,
	})

	assert.False(t, decision.Granted)
	assert.Equal(t, core.LevelCritical, decision.RiskLevel)
}

func TestDeniedRequestsDoNotFeedBaseline(t *testing.T) {
	e, _ := newTestEvaluator(Options{BlacklistedIPs: []string{"203.0.113.9"}})
	sctx := baseContext("frank")
	sctx.IPAddress = "203.0.113.9"

	before := e.CalculateBehavioralRiskScore("frank", sctx)
	e.EvaluateAccess(core.AccessRequest{UserID: "frank", ResourceID: "x", Action: "read", Context: sctx})
	after := e.CalculateBehavioralRiskScore("frank", sctx)

	assert.Equal(t, before, after)
}

func TestDeviceTrustLifecycle(t *testing.T) {
	e, _ := newTestEvaluator(Options{})

	assert.False(t, e.IsDeviceTrusted("alice", "laptop-1"))
	e.RegisterTrustedDevice("alice", "laptop-1")
	assert.True(t, e.IsDeviceTrusted("alice", "laptop-1"))
	assert.False(t, e.IsDeviceTrusted("bob", "laptop-1"))

	e.RevokeTrustedDevice("alice", "laptop-1")
	assert.False(t, e.IsDeviceTrusted("alice", "laptop-1"))
}

func TestUpdateThreatIntelligenceAcceptsOnlyIPs(t *testing.T) {
	e, _ := newTestEvaluator(Options{})

	e.UpdateThreatIntelligence([]string{"10.0.0.5", " 2001:db8::1 ", "evil.example.com", "not an ip"})

	assert.True(t, e.IsIPBlacklisted("10.0.0.5"))
	assert.True(t, e.IsIPBlacklisted("2001:db8::1"))
	assert.False(t, e.IsIPBlacklisted("evil.example.com"))
}

func TestRecommendAuthMethodsScalesWithRisk(t *testing.T) {
	e, _ := newTestEvaluator(Options{BlacklistedIPs: []string{"203.0.113.9"}})

	hostile := baseContext("mallory")
	hostile.IPAddress = "203.0.113.9"
	assert.ElementsMatch(t,
		[]core.VerificationMethod{core.VerifyMFA, core.VerifyBiometric, core.VerifyDeviceFingerprint},
		e.RecommendAuthMethods(hostile))

	calm := baseContext("alice")
	e.RegisterTrustedDevice("alice", calm.DeviceID)
	establishBaseline(e, "alice", calm)
	assert.Equal(t, []core.VerificationMethod{core.VerifyPassword}, e.RecommendAuthMethods(calm))
}

func TestGenerateDeviceFingerprintIsStable(t *testing.T) {
	e, _ := newTestEvaluator(Options{})
	sctx := baseContext("alice")

	first := e.GenerateDeviceFingerprint(sctx)
	second := e.GenerateDeviceFingerprint(sctx)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	sctx.DeviceID = "laptop-2"
	assert.NotEqual(t, first, e.GenerateDeviceFingerprint(sctx))
}
