// Package textutil provides UTF-8 safe text preparation for prompts.
package textutil

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// Processor truncates and sanitizes text before it is sent to a model.
type Processor struct {
	logger *zap.Logger
}

// NewProcessor creates a text processor.
func NewProcessor(logger *zap.Logger) *Processor {
	return &Processor{logger: logger}
}

// Truncate safely truncates text to maxSize bytes, keeping the result
// valid UTF-8.
func (p *Processor) Truncate(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	p.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + "\n[... Content truncated due to size limits ...]"
}

// SanitizeUTF8 drops invalid UTF-8 sequences from the string.
func (p *Processor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}
	return string(result)
}

// Process truncates and sanitizes text in one step.
func (p *Processor) Process(text string, maxSize int) string {
	return p.SanitizeUTF8(p.Truncate(text, maxSize))
}
