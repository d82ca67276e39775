// Package detect implements the heuristic detector pipeline. Every
// detector is stateless per call: it inspects one message and returns a
// confidence in [0,1] together with the evidence that produced it.
// Confidence contributions are order-independent sums followed by a
// final clamp; detectors never stop at the first matching indicator.
package detect

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sentinelmail/sentinel/internal/core"
)

// Result is the output of one detector run.
type Result struct {
	Confidence float64
	Evidence   []string
	// Triggered reports whether the confidence exceeded the detector's
	// own trigger threshold.
	Triggered bool
}

// Detector scores a message for one threat category.
type Detector interface {
	// Type is the threat category this detector reports.
	Type() core.ThreatType

	// Threshold is the fixed per-detector trigger threshold. It is a
	// design constant, not tunable at the aggregation level.
	Threshold() float64

	// Inspect scores the message. Implementations must clamp the
	// returned confidence to [0,1].
	Inspect(msg *core.Message) Result
}

// Normalize lowercases and NFKC-normalizes text so keyword matching is
// stable across homoglyph and width tricks.
func Normalize(text string) string {
	return strings.ToLower(norm.NFKC.String(text))
}

// messageText is the normalized subject+body view the content detectors
// match against.
func messageText(msg *core.Message) string {
	return Normalize(msg.Subject + " " + msg.Body)
}

func countRune(s string, r rune) int {
	n := 0
	for _, c := range s {
		if c == r {
			n++
		}
	}
	return n
}

func finish(d Detector, confidence float64, evidence []string) Result {
	confidence = core.Clamp01(confidence)
	return Result{
		Confidence: confidence,
		Evidence:   evidence,
		Triggered:  confidence > d.Threshold(),
	}
}
