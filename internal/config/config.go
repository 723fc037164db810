package config

import (
	"os"
	"strconv"
	"time"

	"insighto/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Rewriter RewriterConfig
	Mapping  MappingConfig
	Insight  InsightConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds optional SQL source settings. A database is only
// needed when datasets are loaded from relational tables.
type DatabaseConfig struct {
	URL string
}

// RewriterConfig holds settings for the optional text-rewriting service.
type RewriterConfig struct {
	Enabled     bool
	URL         string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// MappingConfig holds schema mapper thresholds.
type MappingConfig struct {
	AcceptanceThreshold float64
}

// InsightConfig holds insight rule thresholds.
type InsightConfig struct {
	TopK                 int
	NullRatioThreshold   float64
	ZScoreThreshold      float64
	CorrelationThreshold float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Rewriter: RewriterConfig{
			Enabled:     getEnvBoolOrDefault("REWRITER_ENABLED", false),
			URL:         getEnvOrDefault("REWRITER_URL", "http://localhost:11434"),
			Model:       getEnvOrDefault("REWRITER_MODEL", "llama3"),
			Timeout:     getEnvDurationOrDefault("REWRITER_TIMEOUT", 5*time.Second),
			MaxTokens:   getEnvIntOrDefault("REWRITER_MAX_TOKENS", 256),
			Temperature: getEnvFloatOrDefault("REWRITER_TEMPERATURE", 0.2),
		},
		Mapping: MappingConfig{
			AcceptanceThreshold: getEnvFloatOrDefault("MAPPING_THRESHOLD", 0.5),
		},
		Insight: InsightConfig{
			TopK:                 getEnvIntOrDefault("INSIGHT_TOP_K", 10),
			NullRatioThreshold:   getEnvFloatOrDefault("INSIGHT_NULL_RATIO", 0.10),
			ZScoreThreshold:      getEnvFloatOrDefault("INSIGHT_Z_SCORE", 3.0),
			CorrelationThreshold: getEnvFloatOrDefault("INSIGHT_MIN_CORRELATION", 0.5),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Rewriter.Enabled && config.Rewriter.URL == "" {
		return errors.ConfigInvalid("REWRITER_URL is required when rewriting is enabled")
	}
	if config.Mapping.AcceptanceThreshold <= 0 || config.Mapping.AcceptanceThreshold > 1 {
		return errors.ConfigInvalid("MAPPING_THRESHOLD must be in (0, 1]")
	}
	if config.Insight.TopK <= 0 {
		return errors.ConfigInvalid("INSIGHT_TOP_K must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
