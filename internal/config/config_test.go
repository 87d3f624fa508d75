package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/knoxify/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOURCE_BUCKET", "knoxify-source")
	t.Setenv("DESTINATION_BUCKET", "knoxify-dest")
	t.Setenv("AWS_REGION", "")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("JOB_TTL", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.NoError(t, cfg.ValidateFrontend())
	assert.NoError(t, cfg.ValidateLambda())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SOURCE_BUCKET", "in")
	t.Setenv("DESTINATION_BUCKET", "out")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("PORT", "9000")
	t.Setenv("JOB_TTL", "30m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JobTTL)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("JOB_TTL", "soon")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidateMissingBuckets(t *testing.T) {
	t.Setenv("SOURCE_BUCKET", "")
	t.Setenv("DESTINATION_BUCKET", "")
	t.Setenv("JOB_TTL", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Error(t, cfg.ValidateFrontend())
	assert.Error(t, cfg.ValidateLambda())

	t.Setenv("DESTINATION_BUCKET", "out")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateFrontend(), "frontend also needs SOURCE_BUCKET")
	assert.NoError(t, cfg.ValidateLambda())
}
