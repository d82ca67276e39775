package detect

import (
	"strings"

	"github.com/sentinelmail/sentinel/internal/core"
)

// defaultSpamKeywords are the stock bulk-mail indicators. Each hit adds
// a fixed weight rather than short-circuiting, so heavily loaded
// messages score higher than borderline ones.
var defaultSpamKeywords = []string{
	"lottery", "winner", "congratulations", "urgent", "act now",
	"click here", "limited time", "free money", "no obligation",
}

const (
	spamKeywordWeight     = 0.15
	spamPunctuationWeight = 0.2
	spamExclamationLimit  = 3
	spamThreshold         = 0.5
)

// SpamDetector scores bulk-mail indicators: weighted keyword hits plus
// an excessive-punctuation bonus.
type SpamDetector struct {
	keywords []string
}

// NewSpamDetector creates a spam detector with the stock keyword list.
func NewSpamDetector() *SpamDetector {
	return &SpamDetector{keywords: defaultSpamKeywords}
}

func (d *SpamDetector) Type() core.ThreatType { return core.ThreatSpam }
func (d *SpamDetector) Threshold() float64    { return spamThreshold }

func (d *SpamDetector) Inspect(msg *core.Message) Result {
	text := messageText(msg)

	var confidence float64
	var evidence []string
	for _, kw := range d.keywords {
		if strings.Contains(text, kw) {
			confidence += spamKeywordWeight
			evidence = append(evidence, "keyword:"+kw)
		}
	}

	if countRune(text, '!') > spamExclamationLimit {
		confidence += spamPunctuationWeight
		evidence = append(evidence, "excessive_punctuation")
	}

	return finish(d, confidence, evidence)
}
