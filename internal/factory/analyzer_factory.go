package factory

import (
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/analyze"
	"github.com/sentinelmail/sentinel/internal/audit"
	"github.com/sentinelmail/sentinel/internal/config"
	"github.com/sentinelmail/sentinel/internal/core"
	"github.com/sentinelmail/sentinel/internal/detect"
)

// AnalyzerFactory creates message analyzers with the full detector
// pipeline.
type AnalyzerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory(cfg *config.Config, logger *zap.Logger) *AnalyzerFactory {
	return &AnalyzerFactory{cfg: cfg, logger: logger}
}

// CreateAnalyzer assembles the detectors, signature registry, and
// analysis options from configuration.
func (f *AnalyzerFactory) CreateAnalyzer(reputation core.ReputationStore, auditLog *audit.Log) (*analyze.Analyzer, error) {
	urls := detect.NewURLAnalyzer()
	detectors := []detect.Detector{
		detect.NewSpamDetector(),
		detect.NewPhishingDetector(urls),
		detect.NewMalwareDetector(),
		detect.NewSuspiciousDetector(),
	}

	sec := f.cfg.GetSecurity()
	return analyze.New(detectors, detect.NewSignatureRegistry(), reputation, auditLog, f.logger, analyze.Options{
		WhitelistedDomains: sec.WhitelistedDomains,
		MaxAttachments:     sec.MaxAttachments,
		AIEnabled:          sec.AIEnabled,
	})
}
