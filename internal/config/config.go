package config

import (
	"os"
	"strconv"

	"policysim/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Suite    SuiteConfig
	Report   ReportConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. URL is optional; with
// no database configured the server keeps verdicts in memory only.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// SuiteConfig holds anchor suite execution settings
type SuiteConfig struct {
	// YieldBetweenTests toggles the cooperative checkpoint between anchor
	// tests in incremental mode.
	YieldBetweenTests bool
	// LeaderboardLimit caps leaderboard queries.
	LeaderboardLimit int
}

// ReportConfig holds report export settings
type ReportConfig struct {
	Dir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Suite: SuiteConfig{
			YieldBetweenTests: getEnvBoolOrDefault("SUITE_YIELD", true),
			LeaderboardLimit:  getEnvIntOrDefault("LEADERBOARD_LIMIT", 50),
		},
		Report: ReportConfig{
			Dir: getEnvOrDefault("REPORT_DIR", "./reports"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Suite.LeaderboardLimit <= 0 {
		return errors.ConfigInvalid("leaderboard limit must be positive")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
