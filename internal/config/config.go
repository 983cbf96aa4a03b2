package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port      string
	ServerEnv string

	// Database configuration
	MongoURI      string
	MongoDatabase string

	// Auth configuration
	JWTSecret     string
	RegisteredTTL time.Duration
	GuestTTL      time.Duration
	CookieName    string
	CookieSecure  bool
	AllowOrigins  string

	// Rate limiting (per-process sliding window)
	RateLimitMax    int
	RateLimitWindow time.Duration
	ReportLimitMax  int

	// Inference service configuration
	InferenceURL     string
	InferenceAPIKey  string
	InferenceModel   string
	InferenceTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "3000"),
		ServerEnv:        getEnv("SERVER_ENV", "development"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "focus"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		RegisteredTTL:    getEnvAsDuration("REGISTERED_TOKEN_TTL", 30*24*time.Hour),
		GuestTTL:         getEnvAsDuration("GUEST_TOKEN_TTL", 14*24*time.Hour),
		CookieName:       getEnv("AUTH_COOKIE_NAME", "focus_token"),
		CookieSecure:     getEnvAsBool("AUTH_COOKIE_SECURE", false),
		AllowOrigins:     getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		RateLimitMax:     getEnvAsInt("RATE_LIMIT_MAX", 120),
		RateLimitWindow:  getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		ReportLimitMax:   getEnvAsInt("REPORT_RATE_LIMIT_MAX", 10),
		InferenceURL:     getEnv("INFERENCE_URL", "https://api.groq.com/openai/v1/chat/completions"),
		InferenceAPIKey:  getEnv("INFERENCE_API_KEY", ""),
		InferenceModel:   getEnv("INFERENCE_MODEL", "llama-3.1-8b-instant"),
		InferenceTimeout: getEnvAsDuration("INFERENCE_TIMEOUT", 45*time.Second),
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		if cfg.ServerEnv != "development" {
			return nil, fmt.Errorf("JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "devsecret"
	}
	if cfg.MongoDatabase == "" {
		return nil, fmt.Errorf("MONGO_DATABASE is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
