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

// ---------------------------------------------------------------------------
// watsonx.ai text generation
// POST <url> with a bearer credential; the first result's generated_text is used.
// ---------------------------------------------------------------------------

const watsonxDefaultModel = "ibm/granite-13b-chat-v2"

// WatsonxService rewrites text via the watsonx.ai generation endpoint.
type WatsonxService struct {
	apiKey    string
	url       string
	projectID string
	modelID   string
	client    *http.Client
}

// Ensure WatsonxService implements RewriteService at compile time.
var _ RewriteService = (*WatsonxService)(nil)

// NewWatsonxService creates a watsonx rewrite service. An empty modelID selects granite-13b-chat-v2.
func NewWatsonxService(apiKey, url, projectID, modelID string) *WatsonxService {
	if modelID == "" {
		modelID = watsonxDefaultModel
	}
	return &WatsonxService{
		apiKey:    apiKey,
		url:       url,
		projectID: projectID,
		modelID:   modelID,
		client:    &http.Client{Timeout: 90 * time.Second},
	}
}

type watsonxRequest struct {
	ModelID    string            `json:"model_id"`
	Input      string            `json:"input"`
	Parameters watsonxParameters `json:"parameters"`
	ProjectID  string            `json:"project_id"`
}

type watsonxParameters struct {
	MaxNewTokens  int      `json:"max_new_tokens"`
	Temperature   float64  `json:"temperature"`
	StopSequences []string `json:"stop_sequences"`
}

type watsonxResponse struct {
	Results []struct {
		GeneratedText string `json:"generated_text"`
	} `json:"results"`
}

// Rewrite implements RewriteService.
func (s *WatsonxService) Rewrite(ctx context.Context, text string, tone models.Tone) (string, error) {
	reqBody := watsonxRequest{
		ModelID: s.modelID,
		Input:   BuildRewritePrompt(text, tone),
		Parameters: watsonxParameters{
			MaxNewTokens:  rewriteMaxTokens,
			Temperature:   rewriteTemperature,
			StopSequences: []string{},
		},
		ProjectID: s.projectID,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal watsonx request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create watsonx request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	slog.Info("watsonx: rewriting text", "model", s.modelID, "tone", tone, "textLen", len(text))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("watsonx request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", &StatusError{Provider: "watsonx", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result watsonxResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse watsonx response: %w", err)
	}

	if len(result.Results) == 0 {
		return "", errors.New("watsonx returned no results")
	}

	generated := result.Results[0].GeneratedText
	if strings.TrimSpace(generated) == "" {
		return "", errors.New("watsonx returned empty generated_text")
	}

	slog.Info("watsonx: rewrite complete", "generatedLen", len(generated))

	return generated, nil
}
