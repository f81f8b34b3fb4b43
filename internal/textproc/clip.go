package textproc

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ClipMarker is appended to text that was shortened by Clipper.
const ClipMarker = "\n[... message truncated ...]"

// Clipper prepares raw message text for size-limited consumers such as the
// LLM reviewers.
type Clipper struct {
	logger *zap.Logger
}

// NewClipper creates a Clipper.
func NewClipper(logger *zap.Logger) *Clipper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clipper{logger: logger}
}

// Truncate cuts text to at most maxBytes bytes on a rune boundary and marks
// the cut. A non-positive maxBytes disables truncation.
func (c *Clipper) Truncate(text string, maxBytes int) string {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	c.logger.Debug("Message truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", cut),
		zap.Int("max_size", maxBytes))

	return text[:cut] + ClipMarker
}

// SanitizeUTF8 drops invalid UTF-8 bytes.
func (c *Clipper) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")
	c.logger.Debug("Message sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))
	return sanitized
}

// Clip sanitizes and then truncates text.
func (c *Clipper) Clip(text string, maxBytes int) string {
	return c.Truncate(c.SanitizeUTF8(text), maxBytes)
}
