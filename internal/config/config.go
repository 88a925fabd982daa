package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the VidScribe server.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	AssemblyAI AssemblyAIConfig
	AI         AIConfig
	LiveKit    LiveKitConfig
	Upload     UploadConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// AssemblyAIConfig drives the URL-mode transcription adapter. The provider
// runs transcripts as async jobs that are polled until done.
type AssemblyAIConfig struct {
	APIKey       string
	BaseURL      string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

type AIConfig struct {
	InferenceTimeout time.Duration
	OpenAI           OpenAIConfig
	Groq             GroqConfig
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type LiveKitConfig struct {
	Host      string
	APIKey    string
	APISecret string
	TokenTTL  time.Duration
}

type UploadConfig struct {
	Dir string
}

// Load reads configuration from environment variables and returns a validated
// Config. Returns an error with a descriptive message if any required value is
// missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("VIDSCRIBE_PORT", 8080),
			Env:  envString("VIDSCRIBE_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		AssemblyAI: AssemblyAIConfig{
			APIKey:       os.Getenv("ASSEMBLYAI_API_KEY"),
			BaseURL:      envString("ASSEMBLYAI_BASE_URL", "https://api.assemblyai.com/v2"),
			PollInterval: envDuration("ASSEMBLYAI_POLL_INTERVAL", 3*time.Second),
			PollTimeout:  envDuration("ASSEMBLYAI_POLL_TIMEOUT", 30*time.Minute),
		},
		AI: AIConfig{
			InferenceTimeout: envDurationSecs("AI_INFERENCE_TIMEOUT_SECS", 120*time.Second),
			OpenAI: OpenAIConfig{
				APIKey: os.Getenv("OPENAI_API_KEY"),
				Model:  envString("OPENAI_MODEL", "gpt-3.5-turbo"),
			},
			Groq: GroqConfig{
				APIKey:  os.Getenv("GROQ_API_KEY"),
				BaseURL: envString("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
				Model:   envString("GROQ_MODEL", "llama3-8b-8192"),
			},
		},
		LiveKit: LiveKitConfig{
			Host:      os.Getenv("LIVEKIT_HOST"),
			APIKey:    os.Getenv("LIVEKIT_API_KEY"),
			APISecret: os.Getenv("LIVEKIT_API_SECRET"),
			TokenTTL:  envDuration("LIVEKIT_TOKEN_TTL", 1*time.Hour),
		},
		Upload: UploadConfig{
			Dir: envString("UPLOAD_DIR", os.TempDir()),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.AssemblyAI.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required")
	}
	if !strings.HasPrefix(c.AssemblyAI.BaseURL, "http://") && !strings.HasPrefix(c.AssemblyAI.BaseURL, "https://") {
		return fmt.Errorf("ASSEMBLYAI_BASE_URL must start with http:// or https://, got %q", c.AssemblyAI.BaseURL)
	}

	if c.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	if c.LiveKit.APIKey == "" {
		return fmt.Errorf("LIVEKIT_API_KEY is required")
	}
	if c.LiveKit.APISecret == "" {
		return fmt.Errorf("LIVEKIT_API_SECRET is required")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
