package reputation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/core"
)

// MySQLStore is a MySQL-backed implementation of core.ReputationStore
// for deployments that share reputation across filter instances.
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to the reputation database using the given DSN.
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sender_reputation (
			sender VARCHAR(255) PRIMARY KEY,
			score DOUBLE NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// Get retrieves the reputation score for a sender.
func (s *MySQLStore) Get(ctx context.Context, sender string) (float64, error) {
	var score float64
	err := s.db.QueryRowContext(ctx, `
		SELECT score FROM sender_reputation WHERE sender = ?
	`, sender).Scan(&score)
	if err != nil {
		if err == sql.ErrNoRows {
			return DefaultScore, nil
		}
		return DefaultScore, fmt.Errorf("failed to query reputation: %w", err)
	}
	return core.Clamp01(score), nil
}

// Update stores a new score for a sender, clamped to [0,1].
func (s *MySQLStore) Update(ctx context.Context, sender string, score float64) error {
	clamped := core.Clamp01(score)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sender_reputation (sender, score, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE score = VALUES(score), updated_at = VALUES(updated_at)
	`, sender, clamped, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update reputation: %w", err)
	}

	s.logger.Debug("Updated sender reputation",
		zap.String("sender", sender),
		zap.Float64("score", clamped))
	return nil
}

// Close closes the underlying database.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
