package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestValidateJWTSecret(t *testing.T) {
	t.Run("Insecure default allowed in development", func(t *testing.T) {
		assert.NoError(t, ValidateJWTSecret("secret", "development"))
		assert.NoError(t, ValidateJWTSecret("", "development"))
	})

	t.Run("Insecure default rejected in production", func(t *testing.T) {
		assert.Error(t, ValidateJWTSecret("change-me", "production"))
		assert.Error(t, ValidateJWTSecret("", "production"))
	})

	t.Run("Short secret rejected in production", func(t *testing.T) {
		assert.Error(t, ValidateJWTSecret("short-but-custom", "production"))
	})

	t.Run("Long secret accepted in production", func(t *testing.T) {
		assert.NoError(t, ValidateJWTSecret(GenerateSecureSecret(), "production"))
	})
}

func TestGenerateSecureSecret(t *testing.T) {
	a := GenerateSecureSecret()
	b := GenerateSecureSecret()
	assert.GreaterOrEqual(t, len(a), MinJWTSecretLength)
	assert.NotEqual(t, a, b)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("UPLOAD_MAX_SIZE", "")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("MONTHLY_HOURS_TARGET", "not-a-number")

	cfg := Load()
	assert.Equal(t, int64(50*1024*1024), cfg.UploadMaxSize)
	assert.Equal(t, 10, cfg.UploadMaxFiles)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 350, cfg.MonthlyHoursTarget)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env     string
		debugOn bool
		infoOn  bool
	}{
		{env: "production", debugOn: false, infoOn: true},
		{env: "development", debugOn: true, infoOn: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			logger, err := NewLogger(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.debugOn, logger.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.infoOn, logger.Core().Enabled(zapcore.InfoLevel))
		})
	}
}
