package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bobarin/echoverse/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

const openaiDefaultModel = "gpt-4o-mini"

// openaiVoices maps each narration voice to the closest OpenAI speech voice.
var openaiVoices = map[models.Voice]openai.SpeechVoice{
	models.VoiceLisa:    openai.VoiceNova,
	models.VoiceMichael: openai.VoiceOnyx,
	models.VoiceAllison: openai.VoiceShimmer,
}

// OpenAIService rewrites text with chat completions and speaks it with the speech endpoint.
type OpenAIService struct {
	client *openai.Client
	model  string
}

var (
	_ RewriteService = (*OpenAIService)(nil)
	_ TTSService     = (*OpenAIService)(nil)
)

// NewOpenAIService creates an OpenAI service. baseURL may be empty for api.openai.com.
func NewOpenAIService(apiKey, baseURL, model string) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openaiDefaultModel
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Rewrite implements RewriteService.
func (s *OpenAIService) Rewrite(ctx context.Context, text string, tone models.Tone) (string, error) {
	slog.Info("OpenAI: rewriting text", "model", s.model, "tone", tone, "textLen", len(text))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildRewritePrompt(text, tone),
			},
		},
		MaxTokens:   rewriteMaxTokens,
		Temperature: rewriteTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from openai")
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errors.New("openai returned empty content")
	}

	slog.Info("OpenAI: rewrite complete", "generatedLen", len(content), "preview", truncateString(content, 80))

	return content, nil
}

// GenerateSpeech implements TTSService using tts-1 with MP3 output.
func (s *OpenAIService) GenerateSpeech(ctx context.Context, text string, voice models.Voice) (*TTSResponse, error) {
	speechVoice, ok := openaiVoices[voice]
	if !ok {
		return nil, fmt.Errorf("no OpenAI voice for %q", voice)
	}

	slog.Info("OpenAI: generating speech", "voice", speechVoice, "textLen", len(text))

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          speechVoice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech request failed: %w", err)
	}
	defer resp.Close()

	audioData, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read openai audio response: %w", err)
	}

	if len(audioData) == 0 {
		return nil, errors.New("openai returned empty audio")
	}

	slog.Info("OpenAI: speech generated", "bytes", len(audioData))

	return &TTSResponse{
		AudioData: audioData,
		Format:    "mp3",
	}, nil
}
