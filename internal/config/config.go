package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	Server     ServerConfig
	MarketData MarketDataConfig
	Redis      RedisConfig
	Forecast   ForecastConfig
	Narrative  NarrativeConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// MarketDataConfig holds price-data provider configuration
type MarketDataConfig struct {
	Provider     string // "yahoo" or "mock"
	BaseURL      string
	FetchTimeout time.Duration
	DefaultYears int
	NewsCount    int
}

// RedisConfig holds the series cache configuration. The cache is optional;
// with Enabled false the pipeline fetches directly on every run.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// Addr returns the host:port address for the Redis client.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ForecastConfig holds forecast adapter configuration.
// Iterative selects the corrected feedback forecast instead of the
// literal repeated-constant behavior of the original model.
type ForecastConfig struct {
	Days      int
	Iterative bool
}

// NarrativeConfig holds the hosted vision-model configuration
type NarrativeConfig struct {
	Provider string // "openai" or "compat"
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// Load loads configuration from environment variables
// It automatically loads .env file if it exists in the current directory
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		MarketData: MarketDataConfig{
			Provider:     getEnv("MARKET_DATA_PROVIDER", "yahoo"),
			BaseURL:      getEnv("MARKET_DATA_BASE_URL", "https://query1.finance.yahoo.com"),
			FetchTimeout: getEnvAsDuration("MARKET_DATA_FETCH_TIMEOUT", 30*time.Second),
			DefaultYears: getEnvAsInt("MARKET_DATA_DEFAULT_YEARS", 2),
			NewsCount:    getEnvAsInt("MARKET_DATA_NEWS_COUNT", 3),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("REDIS_SERIES_TTL", 15*time.Minute),
		},
		Forecast: ForecastConfig{
			Days:      getEnvAsInt("FORECAST_DAYS", 30),
			Iterative: getEnvAsBool("FORECAST_ITERATIVE", false),
		},
		Narrative: NarrativeConfig{
			Provider: getEnv("NARRATIVE_PROVIDER", "openai"),
			APIKey:   getEnv("NARRATIVE_API_KEY", ""),
			BaseURL:  getEnv("NARRATIVE_BASE_URL", ""),
			Model:    getEnv("NARRATIVE_MODEL", "gpt-4o"),
			Timeout:  getEnvAsDuration("NARRATIVE_TIMEOUT", 60*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.MarketData.Provider == "" {
		return fmt.Errorf("MARKET_DATA_PROVIDER is required")
	}
	if c.Forecast.Days < 1 {
		return fmt.Errorf("FORECAST_DAYS must be at least 1")
	}
	switch c.Narrative.Provider {
	case "openai", "compat", "":
	default:
		return fmt.Errorf("unknown NARRATIVE_PROVIDER %q", c.Narrative.Provider)
	}
	if c.Narrative.Provider == "compat" && c.Narrative.BaseURL == "" {
		return fmt.Errorf("NARRATIVE_BASE_URL is required for the compat provider")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
