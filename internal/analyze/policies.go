package analyze

import (
	"strings"

	"github.com/sentinelmail/sentinel/internal/core"
)

// forbiddenPhrases are the stock scam phrases enforced by the default
// keyword policy.
var forbiddenPhrases = []string{
	"urgent transfer", "nigerian prince", "lottery winner",
	"click here now", "limited time offer", "act immediately",
}

// registerDefaultPolicies installs the stock predicates every analyzer
// starts with. They can be removed or replaced through the policy API.
func (a *Analyzer) registerDefaultPolicies() {
	maxAttachments := a.maxAttachments

	a.policies["attachment_count"] = func(msg *core.Message) bool {
		return len(msg.Attachments) < maxAttachments
	}

	a.policies["forbidden_phrases"] = func(msg *core.Message) bool {
		content := strings.ToLower(msg.Subject + " " + msg.Body)
		for _, phrase := range forbiddenPhrases {
			if strings.Contains(content, phrase) {
				return false
			}
		}
		return true
	}
}

// recommendationsFor returns the deterministic follow-up actions for a
// threat type. The first entry is always the quarantine step.
func recommendationsFor(t core.ThreatType) []string {
	recommendations := []string{"Quarantine message for further analysis"}
	switch t {
	case core.ThreatPhishing:
		recommendations = append(recommendations,
			"Warn user about phishing attempt",
			"Block sender domain")
	case core.ThreatMalware:
		recommendations = append(recommendations,
			"Rescan all attachments with updated signatures",
			"Alert security team immediately")
	case core.ThreatSpam:
		recommendations = append(recommendations,
			"Move message to junk folder",
			"Review sender reputation")
	case core.ThreatPolicyViolation:
		recommendations = append(recommendations,
			"Review message against the violated policy")
	case core.ThreatSuspicious:
		recommendations = append(recommendations,
			"Flag message for manual review")
	}
	return recommendations
}
