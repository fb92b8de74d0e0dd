package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and handed to whatever needs it.
type Config struct {
	Port string

	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBLogLevel  string
	AutoMigrate bool

	JWTSecret      string
	AccessTokenTTL time.Duration

	CORSOrigins []string

	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration
}

// LoadEnvFile loads .env without overriding variables already set.
func LoadEnvFile() error {
	return godotenv.Load()
}

func FromEnv() (*Config, error) {
	ttl, err := durationEnv("ACCESS_TOKEN_TTL", 60*time.Minute)
	if err != nil {
		return nil, err
	}
	shutdown, err := durationEnv("SHUTDOWN_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	autoMigrate, err := strconv.ParseBool(envOrDefault("AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
	}

	databaseURL := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if databaseURL == "" {
		databaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	return &Config{
		Port:            envOrDefault("PORT", "8080"),
		DatabaseURL:     databaseURL,
		DBUser:          envOrDefault("DB_USER", "root"),
		DBPass:          envOrDefault("DB_PASS", ""),
		DBHost:          envOrDefault("DB_HOST", "127.0.0.1"),
		DBPort:          envOrDefault("DB_PORT", "3306"),
		DBName:          envOrDefault("DB_NAME", "hotel_db"),
		DBLogLevel:      envOrDefault("DB_LOG_LEVEL", "warn"),
		AutoMigrate:     autoMigrate,
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AccessTokenTTL:  ttl,
		CORSOrigins:     parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "console"),
		ShutdownTimeout: shutdown,
	}, nil
}

// Validate checks what the HTTP server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
