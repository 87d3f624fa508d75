// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the frontend and the conversion lambda read from
// the environment.
type Config struct {
	SourceBucket      string
	DestinationBucket string
	Region            string
	Port              string
	LogLevel          string
	JobTTL            time.Duration
}

// Load reads the environment, after merging a .env file if one exists.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments configure the environment
	// directly.
	_ = godotenv.Load()

	cfg := &Config{
		SourceBucket:      os.Getenv("SOURCE_BUCKET"),
		DestinationBucket: os.Getenv("DESTINATION_BUCKET"),
		Region:            getenvDefault("AWS_REGION", "us-east-1"),
		Port:              getenvDefault("PORT", "8080"),
		LogLevel:          getenvDefault("LOG_LEVEL", "info"),
		JobTTL:            time.Hour,
	}

	if raw := os.Getenv("JOB_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JOB_TTL %q: %w", raw, err)
		}
		cfg.JobTTL = ttl
	}

	return cfg, nil
}

// ValidateFrontend checks the settings the HTTP frontend needs.
func (c *Config) ValidateFrontend() error {
	if c.SourceBucket == "" {
		return fmt.Errorf("SOURCE_BUCKET is required")
	}
	if c.DestinationBucket == "" {
		return fmt.Errorf("DESTINATION_BUCKET is required")
	}
	return nil
}

// ValidateLambda checks the settings the conversion lambda needs.
func (c *Config) ValidateLambda() error {
	if c.DestinationBucket == "" {
		return fmt.Errorf("DESTINATION_BUCKET is required")
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
