package reputation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/core"
)

// SQLiteStore is a SQLite-backed implementation of core.ReputationStore,
// used when reputation must survive process restarts.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (and if necessary creates) the reputation database.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sender_reputation (
			sender TEXT PRIMARY KEY,
			score REAL NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Get retrieves the reputation score for a sender.
func (s *SQLiteStore) Get(ctx context.Context, sender string) (float64, error) {
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
func (s *SQLiteStore) Update(ctx context.Context, sender string, score float64) error {
	clamped := core.Clamp01(score)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sender_reputation (sender, score, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(sender) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at
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
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
