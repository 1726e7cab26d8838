package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/bobarin/echoverse/internal/models"
)

// ---------------------------------------------------------------------------
// TTSService: common interface for text-to-speech providers
// Watson, ElevenLabs, Cartesia and OpenAI implement this interface so the
// pipeline can use whichever is configured without knowing the provider.
// ---------------------------------------------------------------------------

// TTSResponse is the common response type from any TTS provider.
type TTSResponse struct {
	AudioData []byte
	Format    string // "mp3"
}

// TTSService is the interface that any TTS provider must implement.
type TTSService interface {
	// GenerateSpeech converts text to compressed audio spoken by voice.
	GenerateSpeech(ctx context.Context, text string, voice models.Voice) (*TTSResponse, error)
}

// StatusError is returned when a provider answers with a non-success status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, truncateString(e.Body, 300))
}

// truncateString truncates a string to at most maxLen bytes, never splitting a
// UTF-8 sequence, and appends "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
