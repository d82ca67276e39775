package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateShortTextUnchanged(t *testing.T) {
	p := NewProcessor(zap.NewNop())

	assert.Equal(t, "hello", p.Truncate("hello", 100))
	assert.Equal(t, "hello", p.Truncate("hello", 0))
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	p := NewProcessor(zap.NewNop())

	// Cutting at 4 bytes would split the second two-byte rune.
	text := "aé bé"
	truncated := p.Truncate(text, 4)

	assert.True(t, utf8.ValidString(truncated))
	assert.True(t, strings.Contains(truncated, "truncated"))
}

func TestSanitizeUTF8DropsInvalidBytes(t *testing.T) {
	p := NewProcessor(zap.NewNop())

	dirty := "valid\xff\xfetext"
	clean := p.SanitizeUTF8(dirty)

	assert.True(t, utf8.ValidString(clean))
	assert.Equal(t, "validtext", clean)
}

func TestProcessCombinesBothSteps(t *testing.T) {
	p := NewProcessor(zap.NewNop())

	long := strings.Repeat("a", 50) + "\xff"
	processed := p.Process(long, 10)

	assert.True(t, utf8.ValidString(processed))
	assert.True(t, strings.HasPrefix(processed, "aaaaaaaaaa"))
}
