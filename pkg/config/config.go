package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/arnab42/socialite/backend/internal/auth"
	"github.com/arnab42/socialite/backend/pkg/logger"
)

type Config struct {
	Port        string
	Env         string
	PostgresURL string
	JWTSecret   string
	TokenTTL    time.Duration
}

func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Warn.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		PostgresURL: getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:   getEnv("JWT_SECRET", "supersecretjwtkey"),
		TokenTTL:    tokenTTL(),
	}
}

func tokenTTL() time.Duration {
	hours, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "72"))
	if err != nil || hours <= 0 {
		return auth.DefaultTokenTTL
	}
	return time.Duration(hours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
