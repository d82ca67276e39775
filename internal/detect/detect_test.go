package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelmail/sentinel/internal/core"
)

func TestSpamDetectorLoadedMessage(t *testing.T) {
	d := NewSpamDetector()
	msg := &core.Message{
		Subject: "Congratulations winner",
		Body:    "You are a lottery winner! Act now, click here!!!!",
	}

	result := d.Inspect(msg)

	// Five keyword hits plus the punctuation bonus.
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.True(t, result.Triggered)
	assert.Contains(t, result.Evidence, "keyword:lottery")
	assert.Contains(t, result.Evidence, "excessive_punctuation")
}

func TestSpamDetectorNeutralMessage(t *testing.T) {
	d := NewSpamDetector()
	msg := &core.Message{
		Subject: "Project sync",
		Body:    "Meeting at 10am tomorrow in the usual room.",
	}

	result := d.Inspect(msg)

	assert.Zero(t, result.Confidence)
	assert.False(t, result.Triggered)
	assert.Empty(t, result.Evidence)
}

func TestSpamDetectorSingleKeywordBelowThreshold(t *testing.T) {
	d := NewSpamDetector()
	msg := &core.Message{Body: "This is urgent, please reply."}

	result := d.Inspect(msg)

	assert.InDelta(t, 0.15, result.Confidence, 1e-9)
	assert.False(t, result.Triggered)
}

func TestPhishingDetectorCredentialLure(t *testing.T) {
	d := NewPhishingDetector(NewURLAnalyzer())
	msg := &core.Message{
		Subject: "URGENT!!!!!",
		Body:    "Please verify your account now, suspicious activity detected, click here to verify.",
	}

	result := d.Inspect(msg)

	// Three phrase hits plus one urgency hit.
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.True(t, result.Triggered)
	assert.Contains(t, result.Evidence, "keyword:verify your account")
	assert.Contains(t, result.Evidence, "urgency:urgent")
}

func TestPhishingDetectorBlacklistedURL(t *testing.T) {
	d := NewPhishingDetector(NewURLAnalyzer())
	msg := &core.Message{
		Body: "See http://phishing-example.net/login for details. Verify your account today.",
	}

	result := d.Inspect(msg)

	// One phrase hit plus the full URL risk scaled by the URL factor.
	assert.InDelta(t, 0.6, result.Confidence, 1e-9)
	assert.Contains(t, result.Evidence, "url:http://phishing-example.net/login")
}

func TestPhishingDetectorCleanMessage(t *testing.T) {
	d := NewPhishingDetector(NewURLAnalyzer())
	msg := &core.Message{Body: "Lunch on Friday? https://example.com/menu"}

	result := d.Inspect(msg)

	assert.False(t, result.Triggered)
}

func TestMalwareDetectorDoubleExtension(t *testing.T) {
	d := NewMalwareDetector()
	msg := &core.Message{Attachments: []string{"invoice.pdf.exe"}}

	result := d.Inspect(msg)

	// Dangerous extension, double extension, and lure name all stack
	// and the sum clamps at 1.0.
	assert.Equal(t, 1.0, result.Confidence)
	assert.True(t, result.Triggered)
	require.Len(t, result.Evidence, 3)
}

func TestMalwareDetectorPlainExecutable(t *testing.T) {
	d := NewMalwareDetector()
	msg := &core.Message{Attachments: []string{"setup.msi"}}

	result := d.Inspect(msg)

	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.True(t, result.Triggered)
}

func TestMalwareDetectorBenignAttachments(t *testing.T) {
	d := NewMalwareDetector()
	msg := &core.Message{Attachments: []string{"report.pdf", "photo.jpg"}}

	result := d.Inspect(msg)

	assert.Zero(t, result.Confidence)
	assert.False(t, result.Triggered)
}

func TestSuspiciousDetectorScamWording(t *testing.T) {
	d := NewSuspiciousDetector()
	msg := &core.Message{
		Subject: "WIRE TRANSFER NEEDED",
		Body:    "STRICTLY CONFIDENTIAL!!!!!! REPLY AT ONCE",
	}

	result := d.Inspect(msg)

	// Two keywords, the capitalization bonus, and the exclamation bonus.
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.True(t, result.Triggered)
	assert.Contains(t, result.Evidence, "excessive_capitalization")
	assert.Contains(t, result.Evidence, "excessive_exclamation")
}

func TestSuspiciousDetectorNormalCase(t *testing.T) {
	d := NewSuspiciousDetector()
	msg := &core.Message{Body: "Here are the notes from today's call."}

	result := d.Inspect(msg)

	assert.False(t, result.Triggered)
	assert.Zero(t, result.Confidence)
}

func TestNormalizeFoldsWidthAndCase(t *testing.T) {
	// Fullwidth letters fold to their ASCII forms under NFKC.
	assert.Equal(t, "free", Normalize("ＦＲＥＥ"))
	assert.Equal(t, "verify", Normalize("VeRiFy"))
}

func TestDetectorThresholds(t *testing.T) {
	urls := NewURLAnalyzer()
	cases := []struct {
		detector  Detector
		threat    core.ThreatType
		threshold float64
	}{
		{NewSpamDetector(), core.ThreatSpam, 0.5},
		{NewPhishingDetector(urls), core.ThreatPhishing, 0.6},
		{NewMalwareDetector(), core.ThreatMalware, 0.5},
		{NewSuspiciousDetector(), core.ThreatSuspicious, 0.4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.threat, tc.detector.Type())
		assert.Equal(t, tc.threshold, tc.detector.Threshold())
	}
}

func TestURLAnalyzerBlacklistIsConclusive(t *testing.T) {
	a := NewURLAnalyzer()

	assert.Equal(t, 1.0, a.Analyze("http://phishing-example.net/anything"))
	assert.True(t, a.IsRisky("http://phishing-example.net/anything"))
}

func TestURLAnalyzerIndicatorsAccumulate(t *testing.T) {
	a := NewURLAnalyzer()

	// IP host plus two risky path keywords.
	risk := a.Analyze("http://192.168.1.1/secure/login")
	assert.InDelta(t, 0.6, risk, 1e-9)
	assert.True(t, a.IsRisky("http://192.168.1.1/secure/login"))

	// A bare shortener alone stays under the risky threshold.
	assert.InDelta(t, 0.2, a.Analyze("http://bit.ly/x"), 1e-9)
	assert.False(t, a.IsRisky("http://bit.ly/x"))
}

func TestURLAnalyzerBlacklistMutation(t *testing.T) {
	a := NewURLAnalyzer()

	assert.False(t, a.IsBlacklisted("http://evil.example.com/a"))
	a.AddToBlacklist("evil.example.com")
	assert.True(t, a.IsBlacklisted("http://evil.example.com/a"))
	assert.Equal(t, 1.0, a.Analyze("http://evil.example.com/a"))

	a.RemoveFromBlacklist("evil.example.com")
	assert.False(t, a.IsBlacklisted("http://evil.example.com/a"))
}

func TestExtractURLs(t *testing.T) {
	text := "Start https://a.example.com/x then http://b.example.org/y?z=1 end"

	urls := ExtractURLs(text)

	require.Len(t, urls, 2)
	assert.Equal(t, "https://a.example.com/x", urls[0])
	assert.True(t, strings.HasPrefix(urls[1], "http://b.example.org/y"))
}

func TestSignatureRegistryMatch(t *testing.T) {
	r := NewSignatureRegistry()

	hits := r.Match("Congratulations, you are a LOTTERY WINNER today")

	require.Len(t, hits, 1)
	assert.Equal(t, "lottery winner", hits[0].Indicator)
	assert.Equal(t, core.ThreatSpam, hits[0].Type)
}

func TestSignatureRegistryAddRemove(t *testing.T) {
	r := NewSignatureRegistry()

	r.Add("Crypto Giveaway", core.ThreatSuspicious)
	hits := r.Match("limited crypto giveaway inside")
	require.Len(t, hits, 1)
	assert.Equal(t, core.ThreatSuspicious, hits[0].Type)

	r.Remove("crypto giveaway")
	assert.Empty(t, r.Match("limited crypto giveaway inside"))
}
