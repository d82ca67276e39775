package core

import (
	"time"
)

// Message represents an email message submitted for scoring.
// A message is immutable once scored.
type Message struct {
	From        string
	To          []string
	Subject     string
	Body        string
	Attachments []string
	Headers     map[string][]string
}

// ThreatType identifies the category of a detected threat.
type ThreatType int

const (
	ThreatNone ThreatType = iota
	ThreatSpam
	ThreatPhishing
	ThreatMalware
	ThreatSuspicious
	ThreatPolicyViolation
)

// String returns the canonical name of the threat type.
func (t ThreatType) String() string {
	switch t {
	case ThreatSpam:
		return "spam"
	case ThreatPhishing:
		return "phishing"
	case ThreatMalware:
		return "malware"
	case ThreatSuspicious:
		return "suspicious"
	case ThreatPolicyViolation:
		return "policy_violation"
	default:
		return "none"
	}
}

// Severity returns the precedence rank used to break ties between
// detections with equal confidence. Higher wins.
func (t ThreatType) Severity() int {
	switch t {
	case ThreatPolicyViolation:
		return 5
	case ThreatMalware:
		return 4
	case ThreatPhishing:
		return 3
	case ThreatSpam:
		return 2
	case ThreatSuspicious:
		return 1
	default:
		return 0
	}
}

// ThreatLevel is the ordered severity scale shared by message scoring
// and access evaluation.
type ThreatLevel int

const (
	LevelMinimal ThreatLevel = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelCritical
)

// String returns the canonical name of the threat level.
func (l ThreatLevel) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	case LevelCritical:
		return "critical"
	default:
		return "minimal"
	}
}

// LevelForConfidence maps a confidence score onto the threat level ladder.
func LevelForConfidence(confidence float64) ThreatLevel {
	switch {
	case confidence >= 0.9:
		return LevelCritical
	case confidence >= 0.7:
		return LevelHigh
	case confidence >= 0.5:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Clamp01 clamps a score to the [0,1] range. Every confidence or risk
// value is clamped before it is stored or compared.
func Clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// SecurityResult is the outcome of scoring one message. It is created
// once per scoring call and never mutated afterwards.
type SecurityResult struct {
	IsSecure        bool
	ThreatType      ThreatType
	Level           ThreatLevel
	Confidence      float64
	Reason          string
	Recommendations []string
	Metadata        map[string]string
	AnalyzedAt      time.Time
}

// VerificationMethod is an authentication factor that can be active on a
// session or required by an access decision.
type VerificationMethod int

const (
	VerifyPassword VerificationMethod = iota
	VerifyMFA
	VerifyBiometric
	VerifyBehavioral
	VerifyDeviceFingerprint
	VerifyLocation
	VerifyTimeBased
	VerifyCertificate
)

// String returns the canonical name of the verification method.
func (m VerificationMethod) String() string {
	switch m {
	case VerifyMFA:
		return "mfa"
	case VerifyBiometric:
		return "biometric"
	case VerifyBehavioral:
		return "behavioral"
	case VerifyDeviceFingerprint:
		return "device_fingerprint"
	case VerifyLocation:
		return "location"
	case VerifyTimeBased:
		return "time_based"
	case VerifyCertificate:
		return "certificate"
	default:
		return "password"
	}
}

// SecurityContext is an immutable snapshot of a session at the moment an
// access request is evaluated.
type SecurityContext struct {
	UserID              string
	SessionID           string
	DeviceID            string
	IPAddress           string
	UserAgent           string
	Location            string
	Timestamp           time.Time
	ThreatLevel         ThreatLevel
	ActiveVerifications []VerificationMethod
	Attributes          map[string]string
}

// HasVerification reports whether the given method is active on the session.
func (c *SecurityContext) HasVerification(m VerificationMethod) bool {
	for _, v := range c.ActiveVerifications {
		if v == m {
			return true
		}
	}
	return false
}

// SecurityEvent is one entry in the audit log.
type SecurityEvent struct {
	EventID     string
	EventType   string
	UserID      string
	Description string
	Level       ThreatLevel
	Timestamp   time.Time
	Metadata    map[string]string
}

// AccessRequest asks whether an identity may perform an action on a resource.
type AccessRequest struct {
	RequestID  string
	UserID     string
	ResourceID string
	Action     string
	Context    SecurityContext
	Parameters map[string]string
}

// AccessDecision is the outcome of evaluating one access request.
type AccessDecision struct {
	RequestID    string
	Granted      bool
	Reason       string
	RiskLevel    ThreatLevel
	RequiredAuth []VerificationMethod
	ValidFor     time.Duration
	Conditions   map[string]string
}
