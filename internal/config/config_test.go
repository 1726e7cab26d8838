package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("WATSONX_API_KEY", "wx-key")
	t.Setenv("WATSONX_PROJECT_ID", "project-1")
	t.Setenv("TTS_API_KEY", "tts-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, RewriteWatsonx, cfg.RewriteProvider)
	assert.Equal(t, TTSWatson, cfg.TTSProvider)
	assert.Equal(t, "https://us-south.ml.cloud.ibm.com/ml/v1-beta/generation/text", cfg.WatsonxURL)
	assert.Equal(t, "ibm/granite-13b-chat-v2", cfg.WatsonxModelID)
	assert.Equal(t, "https://api.us-south.text-to-speech.watson.cloud.ibm.com", cfg.TTSURL)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingWatsonxCredentials(t *testing.T) {
	t.Setenv("WATSONX_API_KEY", "")
	t.Setenv("WATSONX_PROJECT_ID", "")
	t.Setenv("TTS_API_KEY", "tts-key")

	_, err := Load()
	assert.ErrorContains(t, err, "WATSONX_API_KEY")
}

func TestLoad_AlternativeProviders(t *testing.T) {
	t.Setenv("REWRITE_PROVIDER", RewriteOpenAI)
	t.Setenv("TTS_PROVIDER", TTSElevenLabs)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ELEVENLABS_API_KEY", "el-test")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestValidate_RejectsUnknownProviders(t *testing.T) {
	cfg := &Config{
		RewriteProvider: "mystery",
		TTSProvider:     TTSWatson,
		TTSAPIKey:       "k",
		SessionStore:    SessionStoreMemory,
		SessionTTL:      time.Hour,
	}
	assert.ErrorContains(t, cfg.Validate(), "REWRITE_PROVIDER")

	cfg.RewriteProvider = RewriteGemini
	cfg.GeminiKey = "g"
	cfg.TTSProvider = "espeak"
	assert.ErrorContains(t, cfg.Validate(), "TTS_PROVIDER")

	cfg.TTSProvider = TTSCartesia
	cfg.CartesiaKey = "c"
	cfg.SessionStore = "sqlite"
	assert.ErrorContains(t, cfg.Validate(), "SESSION_STORE")
}

func TestValidate_RejectsNonPositiveLimits(t *testing.T) {
	cfg := &Config{
		RewriteProvider: RewriteOpenAI,
		OpenAIKey:       "o",
		TTSProvider:     TTSOpenAI,
		SessionStore:    SessionStoreMemory,
		SessionTTL:      time.Hour,
		MaxUploadBytes:  1 << 20,
	}
	require.NoError(t, cfg.Validate())

	cfg.MaxUploadBytes = 0
	assert.ErrorContains(t, cfg.Validate(), "MAX_UPLOAD_BYTES")

	cfg.MaxUploadBytes = -5
	assert.ErrorContains(t, cfg.Validate(), "MAX_UPLOAD_BYTES")

	cfg.MaxUploadBytes = 1 << 20
	cfg.SessionTTL = 0
	assert.ErrorContains(t, cfg.Validate(), "SESSION_TTL")
}

func TestLoad_RejectsZeroUploadLimit(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_UPLOAD_BYTES", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "MAX_UPLOAD_BYTES")
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ECHOVERSE_TEST_INT", "not-a-number")
	t.Setenv("ECHOVERSE_TEST_DURATION", "5s")
	t.Setenv("ECHOVERSE_TEST_BOOL", "true")

	assert.Equal(t, 7, getEnvInt("ECHOVERSE_TEST_INT", 7))
	assert.Equal(t, 5*time.Second, getEnvDuration("ECHOVERSE_TEST_DURATION", time.Minute))
	assert.True(t, getEnvBool("ECHOVERSE_TEST_BOOL", false))
	assert.False(t, getEnvBool("ECHOVERSE_TEST_UNSET", false))
	assert.Equal(t, "fallback", getEnv("ECHOVERSE_TEST_UNSET", "fallback"))
}
