// Package config provides configuration for the chat gateway.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the gateway configuration.
type Config struct {
	// Server settings
	HTTPPort       int
	AllowedOrigins []string

	// Model provider
	GeminiAPIKey string
	GeminiModel  string
	LLMBaseURL   string

	// E-commerce backend
	BackendURL  string
	AgentAPIKey string

	// Database
	DatabaseURL string

	// Agent behaviour
	AgentTimeout  time.Duration
	MaxToolRounds int
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8000),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5000")),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		LLMBaseURL:     getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:5000/api"),
		AgentAPIKey:    getEnv("AGENT_API_KEY", ""),
		DatabaseURL:    getEnv("DATABASE_URL", "file:agrichat.db?cache=shared&mode=rwc"),
		AgentTimeout:   time.Duration(getEnvInt("AGENT_TIMEOUT_MS", 120000)) * time.Millisecond,
		MaxToolRounds:  getEnvInt("MAX_TOOL_ROUNDS", 8),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
