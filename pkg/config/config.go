package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every environment variable is read here and nowhere else; the rest of the
// codebase receives an already-populated Config.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data sources
	CoinGecko CoinGeckoConfig
	FearGreed FearGreedConfig
	Yahoo     YahooConfig

	// LLM narrative generation
	AI AIConfig

	// Auth
	Auth AuthConfig

	// Scoring
	ScoringConfigPath string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// CoinGeckoConfig holds CoinGecko API configuration.
type CoinGeckoConfig struct {
	BaseURL string
	APIKey  string // optional, raises the free-tier rate limit when set
}

// FearGreedConfig holds alternative.me Fear & Greed index configuration.
type FearGreedConfig struct {
	BaseURL string
}

// YahooConfig holds Yahoo Finance scraping configuration.
type YahooConfig struct {
	BaseURL string
}

// AIConfig holds the LLM endpoint configuration (OpenAI-compatible chat API).
type AIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// AuthConfig holds JWT auth configuration for mutating API routes.
type AuthConfig struct {
	JWTSecret string
	Enabled   bool
}

// Load reads configuration from environment variables.
// This is the only function in the codebase that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		CoinGecko: CoinGeckoConfig{
			BaseURL: getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			APIKey:  getEnv("COINGECKO_API_KEY", ""),
		},

		FearGreed: FearGreedConfig{
			BaseURL: getEnv("FEARGREED_BASE_URL", "https://api.alternative.me"),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://finance.yahoo.com"),
		},

		AI: AIConfig{
			BaseURL:     getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:      getEnv("AI_API_KEY", ""),
			Model:       getEnv("AI_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvAsInt("AI_MAX_TOKENS", 1200),
			Temperature: getEnvAsFloat("AI_TEMPERATURE", 0.4),
			Timeout:     getEnvAsDuration("AI_TIMEOUT", "90s"),
		},

		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Enabled:   getEnvAsBool("AUTH_ENABLED", true),
		},

		ScoringConfigPath: getEnv("SCORING_CONFIG_PATH", "config/scoring.yaml"),

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED=true")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	// Also try relative to the executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
