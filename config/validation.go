package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ScheduleParser accepts standard five-field specs and descriptors such as @every 1h.
var ScheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for the sqlite driver")
		}
	case "postgres":
		if cfg.DatabaseURL == "" && (cfg.DBHost == "" || cfg.DBName == "") {
			add("DATABASE_URL", "or DB_HOST and DB_NAME are required for the postgres driver")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTExpiry <= 0 {
		add("JWT_EXPIRY", "must be positive")
	}
	if cfg.OpenWeatherTimeout <= 0 {
		add("OPENWEATHER_TIMEOUT", "must be positive")
	}
	if cfg.WeatherUpdateSchedule != "" {
		if _, err := ScheduleParser.Parse(cfg.WeatherUpdateSchedule); err != nil {
			add("WEATHER_UPDATE_SCHEDULE", err.Error())
		}
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaAlertsTopic == "" {
		add("KAFKA_ALERTS_TOPIC", "is required when KAFKA_BROKERS is set")
	}

	if cfg.Env.IsProduction() {
		if cfg.JWTSecret == "" || cfg.JWTSecret == DefaultJWTSecret {
			add("jwt_secret", "a non-default secret is required in production")
		}
		if cfg.OpenWeatherAPIKey == "" {
			add("openweather_api_key", "is required in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
