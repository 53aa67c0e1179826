package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Document store backends, strongest wins: postgres, then redis, then
	// the in-memory default.
	DatabaseURL string
	RedisURL    string
	// StateDir enables the file-backed local snapshots when non-empty.
	StateDir string
	// Identity provider; empty URL selects the self-hosted local provider.
	IdentityURL    string
	IdentityAPIKey string
	// Assistant (text-generation) endpoint.
	AssistantURL    string
	AssistantAPIKey string
	AssistantModel  string

	FetchTimeout time.Duration
}

func Load() Config {
	return Config{
		DatabaseURL:     getenv("DATABASE_URL", ""),
		RedisURL:        getenv("REDIS_URL", ""),
		StateDir:        getenv("NEONCORE_STATE_DIR", "./data/state"),
		IdentityURL:     getenv("NEONCORE_IDENTITY_URL", ""),
		IdentityAPIKey:  getenv("NEONCORE_IDENTITY_API_KEY", ""),
		AssistantURL:    getenv("NEONCORE_ASSISTANT_URL", ""),
		AssistantAPIKey: getenv("NEONCORE_ASSISTANT_API_KEY", ""),
		AssistantModel:  getenv("NEONCORE_ASSISTANT_MODEL", "gemini-3-flash-preview"),
		FetchTimeout:    time.Duration(getenvInt("NEONCORE_FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
