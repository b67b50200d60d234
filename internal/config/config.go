package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Provider  ProviderConfig
	Translate TranslateConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Embedding EmbeddingConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Refresh   RefreshConfig
	Logging   LoggingConfig
}

type ProviderConfig struct {
	APIKey   string
	BaseURL  string
	PageSize int
}

type TranslateConfig struct {
	APIKey  string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
}

type OpenAIConfig struct {
	APIKey         string
	EnableFallback bool
}

type EmbeddingConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Dimension int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RefreshConfig struct {
	Schedule string
	Disabled bool
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider: ProviderConfig{
			APIKey:   getEnv("COINGECKO_API_KEY", ""),
			BaseURL:  getEnv("COINGECKO_BASE_URL", ""),
			PageSize: getEnvInt("COINGECKO_PAGE_SIZE", 100),
		},
		Translate: TranslateConfig{
			APIKey:  getEnv("SARVAM_API_KEY", ""),
			BaseURL: getEnv("SARVAM_BASE_URL", ""),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			EnableFallback: getEnvBool("OPENAI_ENABLE_FALLBACK", true),
		},
		Embedding: EmbeddingConfig{
			APIKey:    getEnv("EMBEDDING_API_KEY", ""),
			BaseURL:   getEnv("EMBEDDING_BASE_URL", ""),
			Model:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			Dimension: getEnvInt("EMBEDDING_DIMENSION", 384),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", ""),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "assistant"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "crypto_assistant"),
		},
		Refresh: RefreshConfig{
			Schedule: getEnv("REFRESH_SCHEDULE", "@every 5m"),
			Disabled: getEnvBool("REFRESH_DISABLED", false),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("COINGECKO_API_KEY is required")
	}
	if c.Translate.APIKey == "" {
		return fmt.Errorf("SARVAM_API_KEY is required")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Provider.PageSize <= 0 || c.Provider.PageSize > 250 {
		return fmt.Errorf("COINGECKO_PAGE_SIZE must be between 1 and 250")
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
