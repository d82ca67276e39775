package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/analyze"
	"github.com/sentinelmail/sentinel/internal/audit"
	"github.com/sentinelmail/sentinel/internal/config"
	"github.com/sentinelmail/sentinel/internal/core"
	"github.com/sentinelmail/sentinel/internal/factory"
	"github.com/sentinelmail/sentinel/internal/logging"
	"github.com/sentinelmail/sentinel/internal/orchestrator"
	"github.com/sentinelmail/sentinel/internal/textutil"
	"github.com/sentinelmail/sentinel/internal/zerotrust"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(textutil.NewProcessor); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewReputationFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewOrchestratorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAnalyzerFactory); err != nil {
		return nil, err
	}

	// Register reputation store
	if err := container.Provide(func(f *factory.ReputationFactory) (core.ReputationStore, error) {
		return f.CreateReputationStore()
	}); err != nil {
		return nil, err
	}

	// Register audit log
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *audit.Log {
		return audit.NewLog(cfg.GetInt("audit.capacity"), logger)
	}); err != nil {
		return nil, err
	}

	// Register orchestrator
	if err := container.Provide(func(f *factory.OrchestratorFactory) (*orchestrator.Orchestrator, error) {
		return f.CreateOrchestrator(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register message analyzer
	if err := container.Provide(func(
		f *factory.AnalyzerFactory,
		reputation core.ReputationStore,
		auditLog *audit.Log,
		orch *orchestrator.Orchestrator,
		logger *zap.Logger,
	) (*analyze.Analyzer, error) {
		analyzer, err := f.CreateAnalyzer(reputation, auditLog)
		if err != nil {
			return nil, err
		}
		analyzer.SetClassifier(factory.NewClassifier(orch, logger))
		return analyzer, nil
	}); err != nil {
		return nil, err
	}

	// Register access evaluator
	if err := container.Provide(func(cfg *config.Config, auditLog *audit.Log, logger *zap.Logger) *zerotrust.Evaluator {
		zt := cfg.GetZeroTrust()
		return zerotrust.New(nil, auditLog, logger, zerotrust.Options{
			SensitiveResources: zt.SensitiveResources,
			SensitiveActions:   zt.SensitiveActions,
			BlacklistedIPs:     zt.BlacklistedIPs,
		})
	}); err != nil {
		return nil, err
	}

	return container, nil
}
