package audit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/core"
)

func TestAppendFillsDefaults(t *testing.T) {
	log := NewLog(10, zap.NewNop())

	log.Append(core.SecurityEvent{EventType: "test_event"})

	events := log.GetRecent(1)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].EventID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestAppendEvictsOldestAtCapacity(t *testing.T) {
	log := NewLog(3, zap.NewNop())

	for i := 0; i < 4; i++ {
		log.Append(core.SecurityEvent{
			EventID:   fmt.Sprintf("event-%d", i),
			EventType: "test_event",
		})
	}

	assert.Equal(t, 3, log.Len())
	events := log.GetRecent(0)
	require.Len(t, events, 3)
	assert.Equal(t, "event-1", events[0].EventID)
	assert.Equal(t, "event-3", events[2].EventID)
}

func TestGetRecentReturnsMostRecentLast(t *testing.T) {
	log := NewLog(10, zap.NewNop())
	for i := 0; i < 5; i++ {
		log.Append(core.SecurityEvent{EventID: fmt.Sprintf("event-%d", i)})
	}

	events := log.GetRecent(2)

	require.Len(t, events, 2)
	assert.Equal(t, "event-3", events[0].EventID)
	assert.Equal(t, "event-4", events[1].EventID)
}

func TestNonPositiveCapacityFallsBack(t *testing.T) {
	log := NewLog(0, zap.NewNop())
	for i := 0; i < DefaultCapacity+5; i++ {
		log.Append(core.SecurityEvent{})
	}
	assert.Equal(t, DefaultCapacity, log.Len())
}

func TestRecordResultConversion(t *testing.T) {
	log := NewLog(10, zap.NewNop())
	msg := &core.Message{From: "mallory@example.com"}
	result := &core.SecurityResult{
		IsSecure:        false,
		ThreatType:      core.ThreatPhishing,
		Level:           core.LevelHigh,
		Confidence:      0.7,
		Reason:          "phishing detected",
		Recommendations: []string{"Quarantine message for further analysis"},
		Metadata:        map[string]string{"sender_reputation": "0.50"},
		AnalyzedAt:      time.Now(),
	}

	log.RecordResult(msg, result)

	events := log.GetRecent(1)
	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, "message_analysis", event.EventType)
	assert.Equal(t, "mallory@example.com", event.UserID)
	assert.Equal(t, "phishing detected", event.Description)
	assert.Equal(t, core.LevelHigh, event.Level)
	assert.Equal(t, "phishing", event.Metadata["threat_type"])
	assert.Equal(t, "0.700", event.Metadata["confidence"])
	assert.Equal(t, "0.50", event.Metadata["sender_reputation"])
}
