// Package analyze implements the risk aggregator: it synthesizes the
// heuristic detector pipeline, the optional AI classification, sender
// reputation, and policy predicates into one SecurityResult.
package analyze

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/audit"
	"github.com/sentinelmail/sentinel/internal/core"
	"github.com/sentinelmail/sentinel/internal/detect"
)

// reputationPenaltyThreshold and reputationPenalty implement the
// low-reputation contribution to the spam signal: senders below the
// threshold add a fixed bonus to the spam confidence before aggregation.
const (
	reputationPenaltyThreshold = 0.3
	reputationPenalty          = 0.4

	// policyViolationConfidence is the fixed confidence assigned to any
	// violated policy predicate.
	policyViolationConfidence = 0.8

	// signatureMatchConfidence is the fixed confidence assigned to a
	// threat-intelligence signature hit.
	signatureMatchConfidence = 0.8
)

// signal is one detector/policy/AI contribution prior to aggregation.
type signal struct {
	threatType core.ThreatType
	confidence float64
	evidence   []string
	triggered  bool
	forceFloor bool
}

// Options configures an Analyzer.
type Options struct {
	// WhitelistedDomains bypass scoring entirely.
	WhitelistedDomains []string
	// MaxAttachments is enforced by the default attachment-count policy.
	MaxAttachments int
	// AuditUserID tagging is derived from the message sender; nothing to
	// configure there.
	AIEnabled bool
}

// Analyzer scores messages. It reads the reputation store, never writes
// it, and appends one audit entry per evaluation.
type Analyzer struct {
	detectors  []detect.Detector
	signatures *detect.SignatureRegistry
	reputation core.ReputationStore
	auditLog   *audit.Log
	logger     *zap.Logger

	whitelist      []string
	maxAttachments int

	mu        sync.RWMutex
	policies  map[string]core.PolicyFunc
	classify  core.ClassifyFunc
	aiEnabled bool
}

// New creates an analyzer. The detector set, reputation store, and audit
// log are required; the AI classification callback is optional and can
// be attached later with SetClassifier.
func New(
	detectors []detect.Detector,
	signatures *detect.SignatureRegistry,
	reputation core.ReputationStore,
	auditLog *audit.Log,
	logger *zap.Logger,
	opts Options,
) (*Analyzer, error) {
	if len(detectors) == 0 {
		return nil, fmt.Errorf("at least one detector is required")
	}
	if reputation == nil {
		return nil, fmt.Errorf("reputation store is required")
	}
	if auditLog == nil {
		return nil, fmt.Errorf("audit log is required")
	}

	normalized := make([]string, 0, len(opts.WhitelistedDomains))
	for _, domain := range opts.WhitelistedDomains {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(domain)))
	}

	maxAttachments := opts.MaxAttachments
	if maxAttachments <= 0 {
		maxAttachments = 20
	}

	a := &Analyzer{
		detectors:      detectors,
		signatures:     signatures,
		reputation:     reputation,
		auditLog:       auditLog,
		logger:         logger,
		whitelist:      normalized,
		maxAttachments: maxAttachments,
		policies:       make(map[string]core.PolicyFunc),
		aiEnabled:      opts.AIEnabled,
	}
	a.registerDefaultPolicies()
	return a, nil
}

// SetClassifier attaches the AI classification callback.
func (a *Analyzer) SetClassifier(fn core.ClassifyFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.classify = fn
}

// EnableAI toggles the AI signal without detaching the callback.
func (a *Analyzer) EnableAI(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.aiEnabled = enabled
}

// AddPolicy registers a named security predicate. A message violating
// any registered predicate scores a PolicyViolation at fixed confidence.
func (a *Analyzer) AddPolicy(name string, policy core.PolicyFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.policies[name] = policy
}

// RemovePolicy drops a named predicate.
func (a *Analyzer) RemovePolicy(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.policies, name)
}

// ActivePolicies lists the registered predicate names.
func (a *Analyzer) ActivePolicies() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.policies))
	for name := range a.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate scores one message. It never panics past its boundary: any
// internal failure converts to a conservative insecure result, because
// failing open is the unacceptable outcome for a security gate.
func (a *Analyzer) Evaluate(ctx context.Context, msg *core.Message) (result *core.SecurityResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Evaluation failed, failing closed",
				zap.Any("panic", r),
				zap.String("sender", msg.From))
			result = &core.SecurityResult{
				IsSecure:   false,
				ThreatType: core.ThreatSuspicious,
				Level:      core.LevelHigh,
				Confidence: 0.5,
				Reason:     fmt.Sprintf("analysis error: %v", r),
				Metadata:   map[string]string{"analysis_error": fmt.Sprint(r)},
				AnalyzedAt: time.Now(),
			}
			a.auditLog.RecordResult(msg, result)
		}
	}()

	if a.isWhitelisted(msg.From) {
		a.logger.Info("Skipping analysis for whitelisted domain",
			zap.String("sender", msg.From))
		result = &core.SecurityResult{
			IsSecure:   true,
			ThreatType: core.ThreatNone,
			Level:      core.LevelLow,
			Confidence: 0.0,
			Reason:     "sender domain is whitelisted",
			Metadata:   map[string]string{"whitelisted": "true"},
			AnalyzedAt: time.Now(),
		}
		a.auditLog.RecordResult(msg, result)
		return result
	}

	metadata := make(map[string]string)
	reputation := a.senderReputation(ctx, msg.From, metadata)

	signals := a.collectSignals(ctx, msg, reputation, metadata)
	result = a.aggregate(signals, metadata)
	result.Metadata["sender_reputation"] = fmt.Sprintf("%.2f", reputation)
	result.Metadata["analysis_timestamp"] = fmt.Sprintf("%d", result.AnalyzedAt.Unix())

	a.auditLog.RecordResult(msg, result)

	a.logger.Debug("Message analyzed",
		zap.String("sender", msg.From),
		zap.String("threat_type", result.ThreatType.String()),
		zap.String("level", result.Level.String()),
		zap.Float64("confidence", result.Confidence),
		zap.Bool("is_secure", result.IsSecure))
	return result
}

func (a *Analyzer) isWhitelisted(from string) bool {
	parts := strings.Split(from, "@")
	if len(parts) != 2 {
		return false
	}
	domain := strings.ToLower(parts[1])
	for _, whitelisted := range a.whitelist {
		if whitelisted == domain {
			return true
		}
	}
	return false
}

func (a *Analyzer) senderReputation(ctx context.Context, sender string, metadata map[string]string) float64 {
	score, err := a.reputation.Get(ctx, sender)
	if err != nil {
		a.logger.Warn("Reputation lookup failed, using neutral default",
			zap.String("sender", sender),
			zap.Error(err))
		metadata["reputation_error"] = err.Error()
		return 0.5
	}
	return score
}

// collectSignals runs every detector, the signature registry, the AI
// callback, and the policy predicates. A failure inside any single
// contributor is contained: its contribution becomes confidence 0 and a
// diagnostic note lands in the metadata.
func (a *Analyzer) collectSignals(ctx context.Context, msg *core.Message, reputation float64, metadata map[string]string) []signal {
	signals := make([]signal, 0, len(a.detectors)+2)

	for _, d := range a.detectors {
		sig := a.runDetector(d, msg, metadata)
		if d.Type() == core.ThreatSpam && reputation < reputationPenaltyThreshold {
			sig.confidence = core.Clamp01(sig.confidence + reputationPenalty)
			sig.evidence = append(sig.evidence, "low_sender_reputation")
			sig.triggered = sig.confidence > d.Threshold()
		}
		sig.forceFloor = sig.triggered &&
			(d.Type() == core.ThreatMalware || d.Type() == core.ThreatPolicyViolation)
		signals = append(signals, sig)
	}

	if a.signatures != nil {
		for _, hit := range a.signatures.Match(msg.Subject + " " + msg.Body) {
			signals = append(signals, signal{
				threatType: hit.Type,
				confidence: signatureMatchConfidence,
				evidence:   []string{"signature:" + hit.Indicator},
				triggered:  true,
				forceFloor: hit.Type == core.ThreatMalware || hit.Type == core.ThreatPolicyViolation,
			})
		}
	}

	a.mu.RLock()
	classify := a.classify
	aiEnabled := a.aiEnabled
	policies := make(map[string]core.PolicyFunc, len(a.policies))
	for name, fn := range a.policies {
		policies[name] = fn
	}
	a.mu.RUnlock()

	if aiEnabled && classify != nil {
		if sig, ok := a.runClassifier(ctx, classify, msg, metadata); ok {
			signals = append(signals, sig)
		}
	}

	for name, policy := range policies {
		if violated := a.policyViolated(name, policy, msg, metadata); violated {
			signals = append(signals, signal{
				threatType: core.ThreatPolicyViolation,
				confidence: policyViolationConfidence,
				evidence:   []string{"policy:" + name},
				triggered:  true,
				forceFloor: true,
			})
		}
	}

	return signals
}

func (a *Analyzer) runDetector(d detect.Detector, msg *core.Message, metadata map[string]string) (sig signal) {
	sig = signal{threatType: d.Type()}
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Detector failed, treating as zero confidence",
				zap.String("detector", d.Type().String()),
				zap.Any("panic", r))
			metadata["detector_error:"+d.Type().String()] = fmt.Sprint(r)
			sig = signal{threatType: d.Type()}
		}
	}()

	result := d.Inspect(msg)
	sig.confidence = core.Clamp01(result.Confidence)
	sig.evidence = result.Evidence
	sig.triggered = result.Triggered
	return sig
}

func (a *Analyzer) runClassifier(ctx context.Context, classify core.ClassifyFunc, msg *core.Message, metadata map[string]string) (signal, bool) {
	aiResult, err := classify(ctx, msg)
	if err != nil {
		a.logger.Warn("AI classification failed, continuing without it",
			zap.Error(err))
		metadata["ai_error"] = err.Error()
		return signal{}, false
	}
	if aiResult == nil {
		return signal{}, false
	}

	return signal{
		threatType: aiResult.ThreatType,
		confidence: core.Clamp01(aiResult.Confidence),
		evidence:   []string{"ai_classification"},
		triggered:  !aiResult.IsSecure,
		forceFloor: !aiResult.IsSecure &&
			(aiResult.ThreatType == core.ThreatMalware || aiResult.ThreatType == core.ThreatPolicyViolation),
	}, true
}

func (a *Analyzer) policyViolated(name string, policy core.PolicyFunc, msg *core.Message, metadata map[string]string) (violated bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Policy predicate failed",
				zap.String("policy", name),
				zap.Any("panic", r))
			metadata["policy_error:"+name] = fmt.Sprint(r)
			violated = false
		}
	}()
	return !policy(msg)
}

// aggregate combines signals by max confidence, breaking ties by threat
// severity, deriving the level from the threshold ladder with a High
// floor for malware and policy violations.
func (a *Analyzer) aggregate(signals []signal, metadata map[string]string) *core.SecurityResult {
	result := &core.SecurityResult{
		IsSecure:   true,
		ThreatType: core.ThreatNone,
		Level:      core.LevelLow,
		Metadata:   metadata,
		AnalyzedAt: time.Now(),
	}

	overall := 0.0
	floorFired := false
	var detected []string
	winner := signal{threatType: core.ThreatNone}

	for _, sig := range signals {
		if sig.confidence > overall {
			overall = sig.confidence
		}
		if sig.forceFloor {
			floorFired = true
		}
		if !sig.triggered {
			continue
		}
		detected = append(detected, sig.threatType.String())
		if sig.confidence > winner.confidence ||
			(sig.confidence == winner.confidence && sig.threatType.Severity() > winner.threatType.Severity()) {
			winner = sig
		}
	}

	result.Confidence = core.Clamp01(overall)
	result.Level = core.LevelForConfidence(result.Confidence)

	if winner.threatType == core.ThreatNone && !floorFired {
		result.Reason = "no threats detected"
		return result
	}

	result.IsSecure = false
	result.ThreatType = winner.threatType
	if floorFired && result.Level < core.LevelHigh {
		result.Level = core.LevelHigh
	}
	result.Reason = fmt.Sprintf("%s detected (%s)",
		winner.threatType.String(), strings.Join(winner.evidence, ", "))
	result.Recommendations = recommendationsFor(winner.threatType)

	sort.Strings(detected)
	metadata["detected_threats"] = strings.Join(detected, ",")
	return result
}
