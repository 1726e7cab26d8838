package services

import (
	"fmt"

	"github.com/bobarin/echoverse/internal/config"
)

// NewRewriteService returns the rewrite provider selected by cfg.RewriteProvider.
func NewRewriteService(cfg *config.Config) (RewriteService, error) {
	switch cfg.RewriteProvider {
	case config.RewriteWatsonx:
		return NewWatsonxService(cfg.WatsonxAPIKey, cfg.WatsonxURL, cfg.WatsonxProjectID, cfg.WatsonxModelID), nil
	case config.RewriteOpenAI:
		return NewOpenAIService(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case config.RewriteGemini:
		return NewGeminiService(cfg.GeminiKey, cfg.GeminiModel), nil
	default:
		return nil, fmt.Errorf("unsupported rewrite provider %q", cfg.RewriteProvider)
	}
}

// NewTTSService returns the speech provider selected by cfg.TTSProvider.
func NewTTSService(cfg *config.Config) (TTSService, error) {
	switch cfg.TTSProvider {
	case config.TTSWatson:
		return NewWatsonTTSService(cfg.TTSAPIKey, cfg.TTSURL), nil
	case config.TTSElevenLabs:
		return NewElevenLabsService(cfg.ElevenLabsKey), nil
	case config.TTSCartesia:
		return NewCartesiaService(cfg.CartesiaKey, cfg.CartesiaURL, cfg.CartesiaVoiceID), nil
	case config.TTSOpenAI:
		// OpenAI speech always uses its own model; OPENAI_MODEL only selects the chat model.
		return NewOpenAIService(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unsupported TTS provider %q", cfg.TTSProvider)
	}
}
