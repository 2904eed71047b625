package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	OutputDir  string
	GrammarDir string

	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	GeminiRateLimitRPM int
	GeminiTimeoutMs    int
	GeminiMaxRetries   int
	GeminiRetryBaseSec int

	RefDBDSN string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		GrammarDir: getEnv("GRAMMAR_DIR", ""),

		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiRateLimitRPM: getEnvInt("GEMINI_RATE_LIMIT_RPM", 10),
		GeminiTimeoutMs:    getEnvInt("GEMINI_TIMEOUT_MS", 120000),
		GeminiMaxRetries:   getEnvInt("GEMINI_MAX_RETRIES", 5),
		GeminiRetryBaseSec: getEnvInt("GEMINI_RETRY_BASE_SEC", 60),

		RefDBDSN: getEnv("REFDB_DSN", ""),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
