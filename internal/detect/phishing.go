package detect

import (
	"strings"

	"github.com/sentinelmail/sentinel/internal/core"
)

var (
	phishingKeywords = []string{
		"verify your account", "suspended account", "click here to verify",
		"update your information", "confirm your identity", "urgent action required",
		"account will be closed", "suspicious activity detected",
	}
	urgencyKeywords = []string{
		"immediate", "urgent", "expire", "suspend", "terminate", "limited time",
	}
)

const (
	phishingKeywordWeight = 0.2
	phishingURLFactor     = 0.4
	urgencyWeight         = 0.1
	phishingThreshold     = 0.6
)

// PhishingDetector scores credential-harvesting indicators: known
// phishing phrases, the risk of every embedded URL, and urgency wording.
type PhishingDetector struct {
	urls *URLAnalyzer
}

// NewPhishingDetector creates a phishing detector backed by the given
// URL analyzer.
func NewPhishingDetector(urls *URLAnalyzer) *PhishingDetector {
	return &PhishingDetector{urls: urls}
}

func (d *PhishingDetector) Type() core.ThreatType { return core.ThreatPhishing }
func (d *PhishingDetector) Threshold() float64    { return phishingThreshold }

func (d *PhishingDetector) Inspect(msg *core.Message) Result {
	text := messageText(msg)

	var confidence float64
	var evidence []string
	for _, kw := range phishingKeywords {
		if strings.Contains(text, kw) {
			confidence += phishingKeywordWeight
			evidence = append(evidence, "keyword:"+kw)
		}
	}

	// Every embedded URL contributes its scaled risk. The raw body is
	// used here because normalization can mangle URL bytes.
	for _, url := range ExtractURLs(msg.Body) {
		risk := d.urls.Analyze(url)
		if risk > 0 {
			confidence += risk * phishingURLFactor
			evidence = append(evidence, "url:"+url)
		}
	}

	for _, kw := range urgencyKeywords {
		if strings.Contains(text, kw) {
			confidence += urgencyWeight
			evidence = append(evidence, "urgency:"+kw)
		}
	}

	return finish(d, confidence, evidence)
}
