package config

import (
	"log"
	"os"
)

// Config contains everything the service needs at startup. MySQL and Redis
// are optional; the pipeline runs without persistence or caching.
type Config struct {
	Port     string
	MySQLDSN string
	RedisURL string

	AI AI
}

// Load reads configuration from the environment. Missing credentials for the
// configured AI provider are fatal here rather than on first use.
func Load() Config {
	cfg := Config{
		Port:     GetEnv("PORT", "8000"),
		MySQLDSN: os.Getenv("MYSQL_DSN"),
		RedisURL: os.Getenv("REDIS_URL"),
		AI:       LoadAIFromEnv(),
	}

	if cfg.AI.KeyFor(cfg.AI.Provider) == "" {
		log.Fatalf("config: no API key configured for provider %q", cfg.AI.Provider)
	}

	return cfg
}

// GetEnv retrieves an environment variable with a default.
func GetEnv(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
