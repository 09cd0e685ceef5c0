package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only accepted outside production.
const DefaultJWTSecret = "change-me-in-production"

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerHost         string
	ServerPort         string
	CORSAllowedOrigins []string

	// Database configuration
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string
	SeedOnStart bool

	// Redis configuration
	RedisURL string

	// JWT configuration
	JWTSecret string
	JWTExpiry time.Duration

	// Weather provider
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	OpenWeatherTimeout time.Duration

	// Periodic ingestion, empty disables the in-process scheduler
	WeatherUpdateSchedule string

	// Alert events, empty brokers disables publishing
	KafkaBrokers     []string
	KafkaAlertsTopic string

	// Rate limits
	AuthRateLimit   int
	ReportRateLimit int

	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance from .env, environment variables and secrets
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Env:                   GetEnvironment(),
		ServerHost:            getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:            getEnv("SERVER_PORT", "8080"),
		CORSAllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		DBDriver:              getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "5432"),
		DBUser:                getEnv("DB_USER", "postgres"),
		DBPassword:            getSecret("db_password", "DB_PASSWORD", ""),
		DBName:                getEnv("DB_NAME", "fagaru"),
		DBSSLMode:             getEnv("DB_SSL_MODE", "disable"),
		SQLitePath:            getEnv("SQLITE_PATH", "fagaru.db"),
		SeedOnStart:           getEnvAsBool("SEED_ON_START", false),
		RedisURL:              getSecret("redis_url", "REDIS_URL", ""),
		JWTSecret:             getSecret("jwt_secret", "JWT_SECRET", DefaultJWTSecret),
		JWTExpiry:             getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		OpenWeatherAPIKey:     getSecret("openweather_api_key", "OPENWEATHER_API_KEY", ""),
		OpenWeatherBaseURL:    getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		OpenWeatherTimeout:    getEnvAsDuration("OPENWEATHER_TIMEOUT", 10*time.Second),
		WeatherUpdateSchedule: getEnv("WEATHER_UPDATE_SCHEDULE", ""),
		KafkaBrokers:          getEnvAsList("KAFKA_BROKERS", nil),
		KafkaAlertsTopic:      getEnv("KAFKA_ALERTS_TOPIC", "heat.alerts"),
		AuthRateLimit:         getEnvAsInt("AUTH_RATE_LIMIT", 20),
		ReportRateLimit:       getEnvAsInt("REPORT_RATE_LIMIT", 10),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "json"),
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getSecret prefers a Docker secret file, then the environment variable.
func getSecret(name, envKey, fallback string) string {
	if v := readSecret(name); v != "" {
		return v
	}
	return getEnv(envKey, fallback)
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
