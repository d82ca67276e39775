package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/config"
	"github.com/sentinelmail/sentinel/internal/core"
	"github.com/sentinelmail/sentinel/internal/reputation"
)

// ReputationFactory creates reputation stores
type ReputationFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewReputationFactory creates a new reputation store factory
func NewReputationFactory(cfg *config.Config, logger *zap.Logger) *ReputationFactory {
	return &ReputationFactory{cfg: cfg, logger: logger}
}

// CreateReputationStore creates a reputation store based on the configuration
func (f *ReputationFactory) CreateReputationStore() (core.ReputationStore, error) {
	repConfig := f.cfg.GetReputation()

	switch repConfig.Type {
	case "memory":
		return reputation.NewMemoryStore(f.logger), nil
	case "sqlite":
		return reputation.NewSQLiteStore(repConfig.SQLitePath, f.logger)
	case "mysql":
		return reputation.NewMySQLStore(repConfig.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported reputation store type: %s", repConfig.Type)
	}
}
