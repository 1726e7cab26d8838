package services

import (
	"testing"

	"github.com/bobarin/echoverse/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRewriteService(t *testing.T) {
	cases := map[string]any{
		config.RewriteWatsonx: &WatsonxService{},
		config.RewriteOpenAI:  &OpenAIService{},
		config.RewriteGemini:  &GeminiService{},
	}

	for provider, want := range cases {
		svc, err := NewRewriteService(&config.Config{RewriteProvider: provider})
		require.NoError(t, err, provider)
		assert.IsType(t, want, svc, provider)
	}

	_, err := NewRewriteService(&config.Config{RewriteProvider: "nope"})
	assert.Error(t, err)
}

func TestNewTTSService(t *testing.T) {
	cases := map[string]any{
		config.TTSWatson:     &WatsonTTSService{},
		config.TTSElevenLabs: &ElevenLabsService{},
		config.TTSCartesia:   &CartesiaService{},
		config.TTSOpenAI:     &OpenAIService{},
	}

	for provider, want := range cases {
		svc, err := NewTTSService(&config.Config{TTSProvider: provider})
		require.NoError(t, err, provider)
		assert.IsType(t, want, svc, provider)
	}

	_, err := NewTTSService(&config.Config{TTSProvider: "nope"})
	assert.Error(t, err)
}
