package factory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/core"
	"github.com/sentinelmail/sentinel/internal/orchestrator"
)

// aiThreatFloor is the minimum confidence before a model verdict is
// treated as a threat rather than a weak hint.
const aiThreatFloor = 0.5

// NewClassifier bridges the orchestrator into the analyzer's AI signal.
// The returned function routes the message through the best available
// spam-detection model and translates the verdict into a security result.
func NewClassifier(orch *orchestrator.Orchestrator, logger *zap.Logger) core.ClassifyFunc {
	return func(ctx context.Context, msg *core.Message) (*core.SecurityResult, error) {
		content := fmt.Sprintf("Subject: %s\n\n%s", msg.Subject, msg.Body)

		resp := orch.DetectSpam(ctx, content)
		if !resp.Success {
			return nil, fmt.Errorf("model classification failed: %s", resp.Error)
		}

		threat := threatFromVerdict(resp.Content)
		result := &core.SecurityResult{
			IsSecure:   threat == core.ThreatNone || resp.Confidence < aiThreatFloor,
			ThreatType: threat,
			Level:      core.LevelForConfidence(resp.Confidence),
			Confidence: resp.Confidence,
			Reason:     resp.Content,
			Metadata:   map[string]string{"model_id": resp.ModelID},
			AnalyzedAt: time.Now(),
		}
		if result.IsSecure {
			result.Confidence = 0
			result.Level = core.LevelMinimal
		}

		logger.Debug("AI classification verdict",
			zap.String("model_id", resp.ModelID),
			zap.String("threat", result.ThreatType.String()),
			zap.Float64("confidence", resp.Confidence))
		return result, nil
	}
}

// threatFromVerdict maps a model's free-text verdict onto the threat
// taxonomy. Unknown verdicts are treated as clean.
func threatFromVerdict(content string) core.ThreatType {
	verdict := strings.ToLower(content)
	switch {
	case strings.Contains(verdict, "policy"):
		return core.ThreatPolicyViolation
	case strings.Contains(verdict, "malware"):
		return core.ThreatMalware
	case strings.Contains(verdict, "phishing"):
		return core.ThreatPhishing
	case strings.Contains(verdict, "spam"):
		return core.ThreatSpam
	case strings.Contains(verdict, "suspicious"):
		return core.ThreatSuspicious
	default:
		return core.ThreatNone
	}
}
