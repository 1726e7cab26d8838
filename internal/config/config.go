package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Rewrite providers
const (
	RewriteWatsonx = "watsonx"
	RewriteOpenAI  = "openai"
	RewriteGemini  = "gemini"
)

// Speech providers
const (
	TTSWatson     = "watson"
	TTSElevenLabs = "elevenlabs"
	TTSCartesia   = "cartesia"
	TTSOpenAI     = "openai"
)

// Session stores
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	// Server
	APIPort            string
	AppEnv             string // "development" or "production"
	LogFile            string // Optional rotating log file (empty = stderr only)
	BackendAPIKey      string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)
	MaxUploadBytes     int64
	SecureCookies      bool // Mark the session cookie Secure (HTTPS deployments)

	// Provider selection
	RewriteProvider string
	TTSProvider     string

	// watsonx.ai text generation
	WatsonxAPIKey    string
	WatsonxURL       string
	WatsonxProjectID string
	WatsonxModelID   string

	// Watson Text to Speech
	TTSAPIKey string
	TTSURL    string

	// OpenAI (rewrite and/or speech)
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	// Gemini (rewrite)
	GeminiKey   string
	GeminiModel string

	// ElevenLabs (speech)
	ElevenLabsKey string

	// Cartesia (speech)
	CartesiaKey     string
	CartesiaURL     string
	CartesiaVoiceID string

	// Sessions
	SessionStore string
	RedisURL     string
	SessionTTL   time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "8080"),
		AppEnv:             getEnv("APP_ENV", "development"),
		LogFile:            getEnv("LOG_FILE", ""),
		BackendAPIKey:      getEnv("BACKEND_API_KEY", ""),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 1<<20)),
		SecureCookies:      getEnvBool("SECURE_COOKIES", false),
		RewriteProvider:    getEnv("REWRITE_PROVIDER", RewriteWatsonx),
		TTSProvider:        getEnv("TTS_PROVIDER", TTSWatson),
		WatsonxAPIKey:      getEnv("WATSONX_API_KEY", ""),
		WatsonxURL:         getEnv("WATSONX_URL", "https://us-south.ml.cloud.ibm.com/ml/v1-beta/generation/text"),
		WatsonxProjectID:   getEnv("WATSONX_PROJECT_ID", ""),
		WatsonxModelID:     getEnv("WATSONX_MODEL_ID", "ibm/granite-13b-chat-v2"),
		TTSAPIKey:          getEnv("TTS_API_KEY", ""),
		TTSURL:             getEnv("TTS_URL", "https://api.us-south.text-to-speech.watson.cloud.ibm.com"),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ElevenLabsKey:      getEnv("ELEVENLABS_API_KEY", ""),
		CartesiaKey:        getEnv("CARTESIA_API_KEY", ""),
		CartesiaURL:        getEnv("CARTESIA_API_URL", "https://api.cartesia.ai"),
		CartesiaVoiceID:    getEnv("CARTESIA_VOICE_ID", ""),
		SessionStore:       getEnv("SESSION_STORE", SessionStoreMemory),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		SessionTTL:         getEnvDuration("SESSION_TTL", 12*time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected providers have the credentials they need.
func (c *Config) Validate() error {
	switch c.RewriteProvider {
	case RewriteWatsonx:
		if c.WatsonxAPIKey == "" || c.WatsonxProjectID == "" {
			return fmt.Errorf("WATSONX_API_KEY and WATSONX_PROJECT_ID are required")
		}
	case RewriteOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for REWRITE_PROVIDER=openai")
		}
	case RewriteGemini:
		if c.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for REWRITE_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("unsupported REWRITE_PROVIDER %q", c.RewriteProvider)
	}

	switch c.TTSProvider {
	case TTSWatson:
		if c.TTSAPIKey == "" {
			return fmt.Errorf("TTS_API_KEY is required")
		}
	case TTSElevenLabs:
		if c.ElevenLabsKey == "" {
			return fmt.Errorf("ELEVENLABS_API_KEY is required for TTS_PROVIDER=elevenlabs")
		}
	case TTSCartesia:
		if c.CartesiaKey == "" {
			return fmt.Errorf("CARTESIA_API_KEY is required for TTS_PROVIDER=cartesia")
		}
	case TTSOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for TTS_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unsupported TTS_PROVIDER %q", c.TTSProvider)
	}

	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

// IsProduction reports whether APP_ENV selects production behaviour (JSON logs).
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
