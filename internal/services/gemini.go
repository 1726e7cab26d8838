package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bobarin/echoverse/internal/models"
	"google.golang.org/genai"
)

const geminiDefaultModel = "gemini-2.5-flash"

// GeminiService rewrites text with the Gemini API through the genai SDK.
type GeminiService struct {
	apiKey  string
	model   string
	baseURL string // Empty uses the SDK default endpoint
}

// Ensure GeminiService implements RewriteService at compile time.
var _ RewriteService = (*GeminiService)(nil)

func NewGeminiService(apiKey, model string) *GeminiService {
	if model == "" {
		model = geminiDefaultModel
	}
	return &GeminiService{
		apiKey: apiKey,
		model:  model,
	}
}

// Rewrite implements RewriteService.
func (s *GeminiService) Rewrite(ctx context.Context, text string, tone models.Tone) (string, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", fmt.Errorf("failed to create genai client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](rewriteTemperature),
		MaxOutputTokens: rewriteMaxTokens,
		StopSequences:   []string{},
	}

	slog.Info("Gemini: rewriting text", "model", s.model, "tone", tone, "textLen", len(text))

	resp, err := client.Models.GenerateContent(ctx, s.model, genai.Text(BuildRewritePrompt(text, tone)), config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	generated := resp.Text()
	if strings.TrimSpace(generated) == "" {
		return "", errors.New("gemini returned empty text")
	}

	slog.Info("Gemini: rewrite complete", "generatedLen", len(generated))

	return generated, nil
}
