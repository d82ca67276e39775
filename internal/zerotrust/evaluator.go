// Package zerotrust implements per-request access evaluation: every
// request is judged from its security context alone, never from a prior
// grant.
package zerotrust

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/audit"
	"github.com/sentinelmail/sentinel/internal/core"
)

// Risk contributions per threat-assessment factor.
const (
	untrustedDeviceRisk = 0.4
	blacklistedIPRisk   = 0.6
	behavioralWeight    = 0.35
)

// grantValidity is the fixed validity duration per residual threat
// level. Higher residual risk means a shorter grant.
var grantValidity = map[core.ThreatLevel]time.Duration{
	core.LevelMinimal:  4 * time.Hour,
	core.LevelLow:      1 * time.Hour,
	core.LevelMedium:   15 * time.Minute,
	core.LevelHigh:     5 * time.Minute,
	core.LevelCritical: 0,
}

// Options configures an Evaluator.
type Options struct {
	SensitiveResources []string
	SensitiveActions   []string
	BlacklistedIPs     []string
}

// Evaluator computes access decisions from security contexts.
type Evaluator struct {
	logger   *zap.Logger
	auditLog *audit.Log
	scorer   core.BehavioralScorer

	mu                 sync.RWMutex
	trustedDevices     map[string]map[string]struct{}
	ipBlacklist        map[string]struct{}
	sensitiveResources map[string]struct{}
	sensitiveActions   map[string]struct{}
}

// New creates an access evaluator. A nil scorer falls back to the
// default exponential-baseline scorer.
func New(scorer core.BehavioralScorer, auditLog *audit.Log, logger *zap.Logger, opts Options) *Evaluator {
	if scorer == nil {
		scorer = NewBaselineScorer()
	}

	e := &Evaluator{
		logger:             logger,
		auditLog:           auditLog,
		scorer:             scorer,
		trustedDevices:     make(map[string]map[string]struct{}),
		ipBlacklist:        make(map[string]struct{}),
		sensitiveResources: make(map[string]struct{}),
		sensitiveActions:   make(map[string]struct{}),
	}
	for _, ip := range opts.BlacklistedIPs {
		e.ipBlacklist[strings.TrimSpace(ip)] = struct{}{}
	}
	for _, r := range opts.SensitiveResources {
		e.sensitiveResources[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	for _, a := range opts.SensitiveActions {
		e.sensitiveActions[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}
	return e
}

// EvaluateAccess produces the decision for one request. Any internal
// failure converts to a deny rather than an unhandled fault.
func (e *Evaluator) EvaluateAccess(req core.AccessRequest) (decision core.AccessDecision) {
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Access evaluation failed, denying",
				zap.Any("panic", r),
				zap.String("user_id", req.UserID))
			decision = core.AccessDecision{
				RequestID: requestID,
				Granted:   false,
				Reason:    fmt.Sprintf("evaluation error: %v", r),
				RiskLevel: core.LevelHigh,
			}
		}
		e.recordDecision(req, decision)
	}()

	behavioralRisk := e.scorer.Risk(req.UserID, req.Context)
	level := e.assessThreatLevel(req.Context, behavioralRisk)

	decision = core.AccessDecision{
		RequestID: requestID,
		RiskLevel: level,
		Conditions: map[string]string{
			"threat_level":    level.String(),
			"behavioral_risk": fmt.Sprintf("%.2f", behavioralRisk),
		},
	}

	switch {
	case level == core.LevelCritical:
		decision.Granted = false
		decision.Reason = "critical threat level, access denied"
		decision.RequiredAuth = []core.VerificationMethod{
			core.VerifyMFA, core.VerifyDeviceFingerprint,
		}

	case level == core.LevelHigh:
		if req.Context.HasVerification(core.VerifyMFA) &&
			req.Context.HasVerification(core.VerifyDeviceFingerprint) {
			decision.Granted = true
			decision.Reason = "high threat level, granted with full step-up verification"
			decision.ValidFor = grantValidity[level]
		} else {
			decision.Granted = false
			decision.Reason = "high threat level, additional verification required"
			decision.RequiredAuth = []core.VerificationMethod{
				core.VerifyMFA, core.VerifyDeviceFingerprint,
			}
		}

	case level == core.LevelMedium && e.isSensitive(req.ResourceID, req.Action):
		if req.Context.HasVerification(core.VerifyMFA) {
			decision.Granted = true
			decision.Reason = "sensitive target, granted with active MFA"
			decision.ValidFor = grantValidity[level]
		} else {
			decision.Granted = false
			decision.Reason = "sensitive target requires step-up authentication"
			decision.RequiredAuth = []core.VerificationMethod{core.VerifyMFA}
		}

	default:
		decision.Granted = true
		decision.Reason = "threat level acceptable"
		decision.ValidFor = grantValidity[level]
	}

	// Denied anomalies must not be absorbed into the baseline, so only
	// granted requests feed it.
	if decision.Granted {
		e.scorer.Learn(req.UserID, req.Context)
	}

	return decision
}

// assessThreatLevel combines device trust, IP blacklist membership, the
// behavioral anomaly score, and the context's carried threat level.
func (e *Evaluator) assessThreatLevel(sctx core.SecurityContext, behavioralRisk float64) core.ThreatLevel {
	risk := 0.0
	if !e.IsDeviceTrusted(sctx.UserID, sctx.DeviceID) {
		risk += untrustedDeviceRisk
	}
	if e.IsIPBlacklisted(sctx.IPAddress) {
		risk += blacklistedIPRisk
	}
	risk += behavioralWeight * core.Clamp01(behavioralRisk)
	risk = core.Clamp01(risk)

	level := levelForRisk(risk)
	if sctx.ThreatLevel > level {
		level = sctx.ThreatLevel
	}
	return level
}

func levelForRisk(risk float64) core.ThreatLevel {
	switch {
	case risk >= 0.9:
		return core.LevelCritical
	case risk >= 0.6:
		return core.LevelHigh
	case risk >= 0.4:
		return core.LevelMedium
	case risk >= 0.2:
		return core.LevelLow
	default:
		return core.LevelMinimal
	}
}

func (e *Evaluator) isSensitive(resource, action string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.sensitiveResources[strings.ToLower(resource)]; ok {
		return true
	}
	_, ok := e.sensitiveActions[strings.ToLower(action)]
	return ok
}

// RegisterTrustedDevice adds a device to the identity's allow-list.
func (e *Evaluator) RegisterTrustedDevice(userID, deviceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.trustedDevices[userID] == nil {
		e.trustedDevices[userID] = make(map[string]struct{})
	}
	e.trustedDevices[userID][deviceID] = struct{}{}

	e.logger.Info("Registered trusted device",
		zap.String("user_id", userID),
		zap.String("device_id", deviceID))
}

// RevokeTrustedDevice removes a device from the identity's allow-list.
func (e *Evaluator) RevokeTrustedDevice(userID, deviceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.trustedDevices[userID], deviceID)
}

// IsDeviceTrusted reports allow-list membership.
func (e *Evaluator) IsDeviceTrusted(userID, deviceID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.trustedDevices[userID][deviceID]
	return ok
}

// AddBlacklistedIP registers a known-bad address.
func (e *Evaluator) AddBlacklistedIP(ip string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ipBlacklist[strings.TrimSpace(ip)] = struct{}{}
}

// IsIPBlacklisted reports blacklist membership.
func (e *Evaluator) IsIPBlacklisted(ip string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.ipBlacklist[ip]
	return ok
}

// UpdateThreatIntelligence folds indicator strings into the blacklist.
// Only entries that parse as IP addresses are accepted here; domain
// indicators belong to the URL analyzer's blacklist.
func (e *Evaluator) UpdateThreatIntelligence(indicators []string) {
	for _, indicator := range indicators {
		trimmed := strings.TrimSpace(indicator)
		if net.ParseIP(trimmed) != nil {
			e.AddBlacklistedIP(trimmed)
		}
	}
}

// RecommendAuthMethods suggests the verification methods appropriate
// for the context's assessed threat.
func (e *Evaluator) RecommendAuthMethods(sctx core.SecurityContext) []core.VerificationMethod {
	level := e.assessThreatLevel(sctx, e.scorer.Risk(sctx.UserID, sctx))
	switch level {
	case core.LevelCritical:
		return []core.VerificationMethod{core.VerifyMFA, core.VerifyBiometric, core.VerifyDeviceFingerprint}
	case core.LevelHigh:
		return []core.VerificationMethod{core.VerifyMFA, core.VerifyDeviceFingerprint}
	case core.LevelMedium:
		return []core.VerificationMethod{core.VerifyMFA}
	default:
		return []core.VerificationMethod{core.VerifyPassword}
	}
}

// GenerateDeviceFingerprint derives a stable fingerprint from the
// context's device attributes.
func (e *Evaluator) GenerateDeviceFingerprint(sctx core.SecurityContext) string {
	sum := sha256.Sum256([]byte(sctx.DeviceID + "|" + sctx.UserAgent + "|" + sctx.IPAddress))
	return hex.EncodeToString(sum[:])
}

// LearnNormalBehavior incorporates an observed context into the
// identity's behavioral baseline.
func (e *Evaluator) LearnNormalBehavior(userID string, sctx core.SecurityContext) {
	e.scorer.Learn(userID, sctx)
}

// CalculateBehavioralRiskScore returns the normalized anomaly score of
// a context against the identity's baseline.
func (e *Evaluator) CalculateBehavioralRiskScore(userID string, sctx core.SecurityContext) float64 {
	return core.Clamp01(e.scorer.Risk(userID, sctx))
}

func (e *Evaluator) recordDecision(req core.AccessRequest, decision core.AccessDecision) {
	if e.auditLog == nil {
		return
	}

	eventType := "access_denied"
	if decision.Granted {
		eventType = "access_granted"
	} else if len(decision.RequiredAuth) > 0 {
		eventType = "access_escalated"
	}

	e.auditLog.Append(core.SecurityEvent{
		EventType:   eventType,
		UserID:      req.UserID,
		Description: decision.Reason,
		Level:       decision.RiskLevel,
		Metadata: map[string]string{
			"request_id": decision.RequestID,
			"resource":   req.ResourceID,
			"action":     req.Action,
		},
	})
}
