package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/analyze"
	"github.com/sentinelmail/sentinel/internal/core"
	"github.com/sentinelmail/sentinel/internal/di"
	"github.com/sentinelmail/sentinel/internal/orchestrator"
	"github.com/sentinelmail/sentinel/internal/zerotrust"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	analyzer *analyze.Analyzer,
	evaluator *zerotrust.Evaluator,
	orch *orchestrator.Orchestrator,
	reputation core.ReputationStore,
) error {
	defer logger.Sync()

	for _, model := range orch.Models() {
		logger.Info("Model available",
			zap.String("model_id", model.ID),
			zap.String("provider", model.Provider),
			zap.Bool("local", model.Local))
	}
	logger.Info("Sentinel started",
		zap.Int("active_policies", len(analyzer.ActivePolicies())),
		zap.Bool("zero_trust_enabled", evaluator != nil))

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := reputation.Close(); err != nil {
		logger.Error("Failed to close reputation store", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}
