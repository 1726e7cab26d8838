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
	"net/url"
	"strings"
	"time"

	"github.com/bobarin/echoverse/internal/models"
)

// ---------------------------------------------------------------------------
// Watson Text to Speech
// POST {serviceURL}/v1/synthesize?voice=<voice> with Accept: audio/mp3.
// IBM Cloud accepts the API key as basic auth with the user name "apikey".
// ---------------------------------------------------------------------------

const watsonAudioAccept = "audio/mp3"

// WatsonTTSService handles text-to-speech via IBM Watson.
type WatsonTTSService struct {
	apiKey     string
	serviceURL string
	client     *http.Client
}

// Ensure WatsonTTSService implements TTSService at compile time.
var _ TTSService = (*WatsonTTSService)(nil)

// NewWatsonTTSService creates a Watson TTS service for the given instance URL.
func NewWatsonTTSService(apiKey, serviceURL string) *WatsonTTSService {
	return &WatsonTTSService{
		apiKey:     apiKey,
		serviceURL: strings.TrimRight(serviceURL, "/"),
		client:     &http.Client{Timeout: 90 * time.Second},
	}
}

type watsonSynthesizeRequest struct {
	Text string `json:"text"`
}

// GenerateSpeech implements TTSService. Watson voice names are the Voice values themselves.
func (s *WatsonTTSService) GenerateSpeech(ctx context.Context, text string, voice models.Voice) (*TTSResponse, error) {
	jsonData, err := json.Marshal(watsonSynthesizeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Watson request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/synthesize?voice=%s", s.serviceURL, url.QueryEscape(string(voice)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create Watson request: %w", err)
	}

	req.SetBasicAuth("apikey", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", watsonAudioAccept)

	slog.Info("Watson: generating speech", "voice", voice, "textLen", len(text))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Watson request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Provider: "Watson TTS", StatusCode: resp.StatusCode, Body: string(body)}
	}

	// The response body IS the audio file
	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Watson audio response: %w", err)
	}

	if len(audioData) == 0 {
		return nil, errors.New("Watson returned empty audio")
	}

	slog.Info("Watson: speech generated", "bytes", len(audioData))

	return &TTSResponse{
		AudioData: audioData,
		Format:    "mp3",
	}, nil
}
