package detect

import (
	"strings"
	"unicode"

	"github.com/sentinelmail/sentinel/internal/core"
)

var suspiciousKeywords = []string{
	"wire transfer", "western union", "money gram", "bitcoin", "cryptocurrency",
	"inheritance", "beneficiary", "confidential", "classified", "top secret",
}

const (
	suspiciousKeywordWeight = 0.2
	suspiciousCapsWeight    = 0.2
	suspiciousBangWeight    = 0.3
	suspiciousCapsRatio     = 0.3
	suspiciousBangLimit     = 5
	suspiciousThreshold     = 0.4
)

// SuspiciousDetector scores scam-adjacent wording and shouty formatting
// that does not fit a more specific threat category.
type SuspiciousDetector struct{}

// NewSuspiciousDetector creates a suspicious-pattern detector.
func NewSuspiciousDetector() *SuspiciousDetector {
	return &SuspiciousDetector{}
}

func (d *SuspiciousDetector) Type() core.ThreatType { return core.ThreatSuspicious }
func (d *SuspiciousDetector) Threshold() float64    { return suspiciousThreshold }

func (d *SuspiciousDetector) Inspect(msg *core.Message) Result {
	raw := msg.Subject + " " + msg.Body
	text := Normalize(raw)

	var confidence float64
	var evidence []string
	for _, kw := range suspiciousKeywords {
		if strings.Contains(text, kw) {
			confidence += suspiciousKeywordWeight
			evidence = append(evidence, "keyword:"+kw)
		}
	}

	// Capitalization ratio is measured on the raw text, before the
	// normalization pass lowercases everything.
	var letters, capitals int
	for _, r := range raw {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				capitals++
			}
		}
	}
	if letters > 0 && float64(capitals)/float64(letters) > suspiciousCapsRatio {
		confidence += suspiciousCapsWeight
		evidence = append(evidence, "excessive_capitalization")
	}

	if countRune(raw, '!') > suspiciousBangLimit {
		confidence += suspiciousBangWeight
		evidence = append(evidence, "excessive_exclamation")
	}

	return finish(d, confidence, evidence)
}
