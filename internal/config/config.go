package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	Port        string
	Env         string
	MongoURI    string
	MongoDBName string
	JWTSecret   string
	TokenExpiry time.Duration

	// Startup connection policy for Mongo. The server starts either way;
	// on failure it falls back to the in-memory store.
	ConnectRetries int
	ConnectBackoff time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPPassword string
}

// LoadConfig reads configuration from .env / environment variables.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:    getEnv("MONGO_DB", "fittrack"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenExpiry:    time.Duration(getEnvInt("TOKEN_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		ConnectRetries: getEnvInt("MONGO_CONNECT_RETRIES", 3),
		ConnectBackoff: time.Duration(getEnvInt("MONGO_CONNECT_BACKOFF_SEC", 2)) * time.Second,
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPSender:     getEnv("SMTP_SENDER", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.WithField("key", key).Warnf("Invalid integer %q, using default %d", value, fallback)
		return fallback
	}
	return parsed
}
