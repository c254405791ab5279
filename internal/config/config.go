package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration

	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	MigrationsPath   string
	AudioDir         string
	PlayerCommand    string
	QuestionBankPath string

	AuthToken string

	SESRegion    string
	SESFromEmail string
	SESFromName  string
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is applied first if
// present.
func Load() *Config {
	// Missing .env is fine; plain environment variables still apply
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:       getEnv("API_BASE_URL", "http://localhost:8000"),
		RequestTimeout:   getDuration("API_TIMEOUT_SECONDS", 30*time.Second),
		DatabaseType:     getEnv("DB_TYPE", "sqlite"),
		DatabasePath:     getEnv("DB_PATH", "./mockmate.db"),
		DatabaseURL:      getEnv("DB_URL", ""),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./migrations"),
		AudioDir:         getEnv("AUDIO_DIR", "./audio"),
		PlayerCommand:    getEnv("AUDIO_PLAYER", ""),
		QuestionBankPath: getEnv("QUESTION_BANK_PATH", ""),
		AuthToken:        getEnv("AUTH_TOKEN", ""),
		SESRegion:        getEnv("SES_REGION", "us-east-1"),
		SESFromEmail:     getEnv("SES_FROM_EMAIL", ""),
		SESFromName:      getEnv("SES_FROM_NAME", "MockMate"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration reads a whole-seconds environment variable as a duration
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
