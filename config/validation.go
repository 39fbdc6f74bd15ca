package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable in the
// current environment.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ChatAPIKey == "" {
		errors = append(errors, "CHAT_API_KEY (or the chat_api_key secret) is required")
	}
	if cfg.ServerPort == "" {
		errors = append(errors, "SERVER_PORT must not be empty")
	}
	if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
		errors = append(errors, "REDIS_URL or REDIS_HOST and REDIS_PORT are required")
	}

	// S3 is optional, but a bucket without a region cannot be reached.
	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		errors = append(errors, "AWS_REGION is required when S3_BUCKET_NAME is set")
	}

	if IsProduction() && cfg.ImageAPIKey == "" && cfg.ChatAPIKey == "" {
		errors = append(errors, "an image API key is required in production")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
