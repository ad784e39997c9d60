package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	// MinJWTSecretLength is the minimum required length for the token signing secret in production
	MinJWTSecretLength = 32

	defaultUploadMaxSize = 50 * 1024 * 1024
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	// Turso (remote libSQL); when set it takes precedence over DBPath
	TursoDatabaseURL string
	TursoAuthToken   string
	// Uploads
	UploadDir      string
	UploadMaxSize  int64
	UploadMaxFiles int
	// Auth
	JWTSecret    string
	JWTExpiresIn time.Duration
	// HTTP
	AllowedOrigins []string
	AppURL         string
	DefaultLocale  string
	Timezone       string
	// Dashboard
	MonthlyHoursTarget int
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged instead of sent
	ReminderCron  string
	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		zap.S().Info("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	jwtSecret := getEnv("JWT_SECRET", "")

	if err := ValidateJWTSecret(jwtSecret, environment); err != nil {
		zap.S().Fatalw("invalid JWT secret", "error", err)
	}

	if jwtSecret == "" && environment != "production" {
		jwtSecret = GenerateSecureSecret()
		zap.S().Info("Generated temporary JWT secret for development. Set JWT_SECRET for tokens that survive restarts.")
	}

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "lexfirm.db"),
		Environment:        environment,
		TursoDatabaseURL:   getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:     getEnv("TURSO_AUTH_TOKEN", ""),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxSize:      int64(getEnvInt("UPLOAD_MAX_SIZE", defaultUploadMaxSize)),
		UploadMaxFiles:     getEnvInt("UPLOAD_MAX_FILES", 10),
		JWTSecret:          jwtSecret,
		JWTExpiresIn:       getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),
		AllowedOrigins:     strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:             getEnv("APP_URL", "http://localhost:8080"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		Timezone:           getEnv("TIMEZONE", "America/Mexico_City"),
		MonthlyHoursTarget: getEnvInt("MONTHLY_HOURS_TARGET", 350),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "noreply@lexfirm.mx"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "LexFirm"),
		EmailTestMode:      getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		ReminderCron:       getEnv("REMINDER_CRON", "0 8 * * *"),
		R2AccountID:        getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:      getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:       getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:        getEnv("R2_PUBLIC_URL", ""),
	}
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location returns the configured timezone, falling back to local time.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		zap.S().Warnw("ignoring non-numeric env value", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		zap.S().Warnw("ignoring invalid duration", "key", key, "value", value)
		return defaultValue
	}
	return d
}

// ValidateJWTSecret checks the signing secret. Production refuses known
// defaults and anything shorter than MinJWTSecretLength.
func ValidateJWTSecret(secret string, environment string) error {
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				return fmt.Errorf("JWT_SECRET is set to an insecure default value; generate one with: openssl rand -base64 32")
			}
			return nil
		}
	}

	if environment == "production" && len(secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production (current: %d)", MinJWTSecretLength, len(secret))
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret.
// Used only for development when no secret is provided.
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		zap.S().Warnw("failed to generate secure secret", "error", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
