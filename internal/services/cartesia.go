package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bobarin/echoverse/internal/models"
)

const (
	// Default Cartesia API version
	CartesiaAPIVersion = "2024-06-10"

	// Default voice ID used when no CARTESIA_VOICE_ID is configured
	DefaultCartesiaVoiceID = "a0e99841-438c-4a64-b679-ae501e7d6091"
)

type CartesiaService struct {
	apiKey     string
	apiURL     string
	apiVersion string
	voiceIDs   map[models.Voice]string
	client     *http.Client
}

// Ensure CartesiaService implements TTSService at compile time.
var _ TTSService = (*CartesiaService)(nil)

// NewCartesiaService creates a Cartesia service. Every narration voice speaks with
// defaultVoiceID unless overridden with WithVoice.
func NewCartesiaService(apiKey, apiURL, defaultVoiceID string) *CartesiaService {
	if defaultVoiceID == "" {
		defaultVoiceID = DefaultCartesiaVoiceID
	}
	voiceIDs := make(map[models.Voice]string)
	for _, v := range models.Voices() {
		voiceIDs[v] = defaultVoiceID
	}
	return &CartesiaService{
		apiKey:     apiKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		apiVersion: CartesiaAPIVersion,
		voiceIDs:   voiceIDs,
		client:     &http.Client{Timeout: 60 * time.Second},
	}
}

// WithVoice assigns a Cartesia voice id to a narration voice.
func (s *CartesiaService) WithVoice(voice models.Voice, cartesiaID string) *CartesiaService {
	s.voiceIDs[voice] = cartesiaID
	return s
}

// CartesiaRequest matches the Cartesia /tts/bytes request body
type CartesiaRequest struct {
	ModelID      string                 `json:"model_id"`
	Transcript   string                 `json:"transcript"`
	Voice        CartesiaVoiceSpecifier `json:"voice"`
	Language     string                 `json:"language,omitempty"`
	OutputFormat CartesiaOutputFormat   `json:"output_format"`
}

type CartesiaVoiceSpecifier struct {
	Mode string `json:"mode"`
	ID   string `json:"id"`
}

type CartesiaOutputFormat struct {
	Container  string `json:"container"`
	Encoding   string `json:"encoding,omitempty"`
	SampleRate int    `json:"sample_rate"`
	BitRate    int    `json:"bit_rate,omitempty"`
}

// GenerateSpeech generates audio from text using Cartesia TTS.
// Implements the TTSService interface.
func (s *CartesiaService) GenerateSpeech(ctx context.Context, text string, voice models.Voice) (*TTSResponse, error) {
	voiceID, ok := s.voiceIDs[voice]
	if !ok {
		return nil, fmt.Errorf("no Cartesia voice for %q", voice)
	}

	reqBody := CartesiaRequest{
		ModelID:    "sonic-english",
		Transcript: text,
		Voice: CartesiaVoiceSpecifier{
			Mode: "id",
			ID:   voiceID,
		},
		Language: "en",
		OutputFormat: CartesiaOutputFormat{
			Container:  "mp3",
			SampleRate: 44100,
			BitRate:    192000,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/tts/bytes", s.apiURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set required headers
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cartesia-Version", s.apiVersion)

	slog.Info("Cartesia: generating speech", "voiceID", voiceID, "textLen", len(text))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cartesia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Provider: "cartesia", StatusCode: resp.StatusCode, Body: string(body)}
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	if len(audioData) == 0 {
		return nil, errors.New("cartesia returned empty audio")
	}

	return &TTSResponse{
		AudioData: audioData,
		Format:    "mp3",
	}, nil
}
