package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every environment-driven setting the application recognizes.
type Config struct {
	Port     int
	Debug    bool
	LogLevel string

	// DatabaseURL is a full postgres DSN, e.g.
	// "host=localhost user=todo password=todo dbname=todo port=5432 sslmode=disable".
	DatabaseURL string

	// LLM settings for the natural-language parsing endpoint.
	// LLMAPIKey is read from BAILIAN_API_KEY, falling back to OPENAI_API_KEY.
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	CORSOrigins []string

	// FrontendDir is served for paths no API route matches, when it exists.
	FrontendDir string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:        getEnvAsInt("PORT", 8080),
		Debug:       getEnvAsBool("DEBUG", false),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LLMAPIKey:   getEnv("BAILIAN_API_KEY", getEnv("OPENAI_API_KEY", "")),
		LLMBaseURL:  getEnv("ALI_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
		LLMModel:    getEnv("ALI_MODEL", "qwen-turbo"),
		CORSOrigins: splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		FrontendDir: getEnv("FRONTEND_DIR", "./frontend"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes":
			return true
		default:
			return false
		}
	}
	return fallback
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
