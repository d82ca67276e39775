// Package audit implements the bounded, append-only security event log.
// The log keeps the most recent entries up to a fixed capacity and
// evicts the oldest entry atomically with each append.
package audit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/core"
)

// DefaultCapacity bounds the log when no explicit capacity is configured.
const DefaultCapacity = 1000

// Log is a bounded append-only record of recent security events.
// Appends and reads are serialized under a single lock; the log never
// holds any other lock while appending.
type Log struct {
	mu       sync.Mutex
	entries  []core.SecurityEvent
	capacity int
	logger   *zap.Logger
}

// NewLog creates an audit log with the given capacity. Non-positive
// capacities fall back to DefaultCapacity.
func NewLog(capacity int, logger *zap.Logger) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries:  make([]core.SecurityEvent, 0, capacity),
		capacity: capacity,
		logger:   logger,
	}
}

// Append records an event, evicting the oldest entry if the log is full.
func (l *Log) Append(event core.SecurityEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	l.mu.Lock()
	if len(l.entries) >= l.capacity {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, event)
	l.mu.Unlock()

	l.logger.Debug("Recorded security event",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("level", event.Level.String()))
}

// RecordResult converts a scoring result into an event and appends it.
func (l *Log) RecordResult(msg *core.Message, result *core.SecurityResult) {
	metadata := make(map[string]string, len(result.Metadata)+2)
	for k, v := range result.Metadata {
		metadata[k] = v
	}
	metadata["threat_type"] = result.ThreatType.String()
	metadata["confidence"] = fmt.Sprintf("%.3f", result.Confidence)

	description := result.Reason
	if description == "" {
		description = "message scored"
	}
	if len(result.Recommendations) > 0 {
		metadata["recommendations"] = strings.Join(result.Recommendations, "; ")
	}

	l.Append(core.SecurityEvent{
		EventType:   "message_analysis",
		UserID:      msg.From,
		Description: description,
		Level:       result.Level,
		Timestamp:   result.AnalyzedAt,
		Metadata:    metadata,
	})
}

// GetRecent returns up to n events, ordered oldest first with the most
// recent entry last. The returned slice is a copy.
func (l *Log) GetRecent(n int) []core.SecurityEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]core.SecurityEvent, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len returns the current number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
