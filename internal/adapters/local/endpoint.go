// Package local implements an in-process heuristic model endpoint so the
// orchestrator can serve classification requests without any network
// dependency.
package local

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/core"
	"github.com/sentinelmail/sentinel/internal/detect"
	"github.com/sentinelmail/sentinel/internal/orchestrator"
)

// Endpoint scores the prompt text with the heuristic detector pipeline
// and reports the strongest signal as the classification.
type Endpoint struct {
	detectors []detect.Detector
	logger    *zap.Logger
}

// NewEndpoint creates a local classifier endpoint.
func NewEndpoint(logger *zap.Logger) *Endpoint {
	urls := detect.NewURLAnalyzer()
	return &Endpoint{
		detectors: []detect.Detector{
			detect.NewSpamDetector(),
			detect.NewPhishingDetector(urls),
			detect.NewSuspiciousDetector(),
		},
		logger: logger,
	}
}

// Invoke classifies the request prompt deterministically.
func (e *Endpoint) Invoke(_ context.Context, model orchestrator.ModelInfo, req orchestrator.Request) (*orchestrator.Invocation, error) {
	msg := &core.Message{Body: req.Prompt}

	best := core.ThreatNone
	confidence := 0.0
	for _, d := range e.detectors {
		result := d.Inspect(msg)
		if result.Confidence > confidence ||
			(result.Confidence == confidence && d.Type().Severity() > best.Severity()) {
			confidence = result.Confidence
			best = d.Type()
		}
	}

	content := "clean"
	if best != core.ThreatNone && confidence > 0 {
		content = best.String()
	}

	return &orchestrator.Invocation{
		Content:    content,
		Confidence: core.Clamp01(confidence),
		Metadata: map[string]string{
			"model": model.ID,
			"local": "true",
			"note":  fmt.Sprintf("heuristic classification: %s", content),
		},
	}, nil
}
