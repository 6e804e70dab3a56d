// Package config reads the service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the runtime settings of the CLI and the HTTP service.
type Config struct {
	Port           string
	LogLevel       string
	LogFormat      string
	MaxUploadBytes int
	CacheTTL       time.Duration
	StaticDir      string
}

// Load reads .env files (missing files are fine) and then the environment.
// Invalid values fall back to their defaults with a warning.
func Load(log logrus.FieldLogger, files ...string) *Config {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := godotenv.Load(files...); err != nil {
		log.WithError(err).Debug("no .env file loaded, relying on environment variables")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		MaxUploadBytes: getEnvInt(log, "MAX_UPLOAD_MB", 32) << 20,
		CacheTTL:       getEnvDuration(log, "CACHE_TTL", 15*time.Minute),
		StaticDir:      getEnv("STATIC_DIR", ""),
	}
}

// Addr is the listen address for the HTTP service.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(log logrus.FieldLogger, key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.WithFields(logrus.Fields{"key": key, "value": raw, "default": fallback}).Warn("invalid integer setting, using default")
		return fallback
	}
	return v
}

func getEnvDuration(log logrus.FieldLogger, key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.WithFields(logrus.Fields{"key": key, "value": raw, "default": fallback}).Warn("invalid duration setting, using default")
		return fallback
	}
	return v
}
