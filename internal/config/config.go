package config

import (
	"os"
	"strconv"
	"strings"
)

// Store backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort   string
	AppEnv    string
	AWSRegion string
	// AWSEndpointURL is empty in prod and points at LocalStack in dev.
	AWSEndpointURL string
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTable    string
	// StoreBackend is "dynamodb" or "memory".
	StoreBackend string
	// DynamoBootstrap creates the table on startup.
	DynamoBootstrap bool
	// AllowedOrigins lists the CORS allowed origins.
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	// TrustProxyHeaders keys rate limiting on X-Forwarded-For / X-Real-Ip.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:         getEnv("APP_PORT", "3000"),
		AppEnv:          getEnv("APP_ENV", "development"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:  getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:  getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTable:     getEnv("DYNAMODB_TABLE_NAME", "EventsTable"),
		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", BackendDynamoDB)),
		DynamoBootstrap: getEnvBool("DYNAMO_BOOTSTRAP", false),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),

		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
