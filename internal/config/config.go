package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is loaded once at startup and
// handed to the components that need it; nothing reads it through a global.
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Token signing
	SecretKey      string
	AccessTokenTTL time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "peppermint"),
		DBPassword: getEnv("DB_PASSWORD", "peppermint"),
		DBName:     getEnv("DB_NAME", "peppermint"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SecretKey: getEnv("SECRET_KEY", "fallback-secret-key-for-dev-only"),
	}

	// Token lifetime is configured in minutes.
	ttlStr := getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	minutes, err := strconv.Atoi(ttlStr)
	if err != nil || minutes <= 0 {
		log.Printf("Warning: invalid ACCESS_TOKEN_EXPIRE_MINUTES value '%s', falling back to 30\n", ttlStr)
		minutes = 30
	}
	config.AccessTokenTTL = time.Duration(minutes) * time.Minute

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
