package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// AI provider configuration
	ChatAPIKey  string
	ChatAPIURL  string
	ChatModel   string
	ImageAPIKey string
	ImageAPIURL string
	ImageModel  string

	// Optional S3 storage for generated dish images. Empty bucket means
	// images stay inline as data URIs.
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker secrets for sensitive values outside CI.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisURL:  os.Getenv("REDIS_URL"),

		ChatAPIURL:  os.Getenv("CHAT_API_URL"),
		ChatModel:   os.Getenv("CHAT_MODEL"),
		ImageAPIURL: os.Getenv("IMAGE_API_URL"),
		ImageModel:  os.Getenv("IMAGE_MODEL"),

		S3Bucket:  os.Getenv("S3_BUCKET_NAME"),
		AWSRegion: os.Getenv("AWS_REGION"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	// Sensitive values: environment variables win (CI uses only these),
	// Docker secrets are the fallback for the other environments.
	cfg.ChatAPIKey = loadSensitive("CHAT_API_KEY", "chat_api_key")
	cfg.ImageAPIKey = loadSensitive("IMAGE_API_KEY", "image_api_key")
	cfg.RedisPassword = loadSensitive("REDIS_PASSWORD", "redis_password")

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadSensitive resolves a sensitive value from the environment, a *_FILE
// pointer, or a Docker secret, in that order.
func loadSensitive(envVar, secretName string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if file := os.Getenv(envVar + "_FILE"); file != "" {
		if data, err := os.ReadFile(file); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	if IsCI() {
		// CI must provide secrets via environment variables only.
		return ""
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
