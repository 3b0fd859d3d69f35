package configs

import (
	"os"
)

// Config holds all configuration for both backends
type Config struct {
	Business BusinessConfig
	Broker   BrokerConfig
	Quotes   QuoteConfig
	Env      string
}

// BusinessConfig holds the business ledger server configuration
type BusinessConfig struct {
	Port   string
	DBPath string
}

// BrokerConfig holds the broker server configuration
type BrokerConfig struct {
	Port        string
	DatabaseURL string
}

// QuoteConfig holds the market-data provider configuration
type QuoteConfig struct {
	BaseURL string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Business: BusinessConfig{
			Port:   getEnv("BUSINESS_PORT", "5000"),
			DBPath: getEnv("BUSINESS_DB_PATH", "tradejoy.db"),
		},
		Broker: BrokerConfig{
			Port:        getEnv("BROKER_PORT", "8080"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Quotes: QuoteConfig{
			BaseURL: getEnv("QUOTE_BASE_URL", ""),
		},
		Env: getEnv("GO_ENV", "development"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
