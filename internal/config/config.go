// Package config loads server configuration from the environment, with a
// .env file honored in development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the full server configuration.
type Config struct {
	Addr string

	ResponseTimeout time.Duration
	CardLossTimeout time.Duration
	ReconnectGrace  time.Duration

	JWTSecret string

	// Optional backing services; empty disables the integration.
	DatabaseURL string
	RedisURL    string

	LogLevel logrus.Level
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warn("Failed loading .env file")
		}
	}

	cfg := Config{
		Addr:            getEnv("COUP_ADDR", ":8080"),
		ResponseTimeout: secondsEnv("COUP_RESPONSE_TIMEOUT_SEC", 15),
		CardLossTimeout: secondsEnv("COUP_CARD_LOSS_TIMEOUT_SEC", 30),
		ReconnectGrace:  secondsEnv("COUP_RECONNECT_GRACE_SEC", 30),
		JWTSecret:       getEnv("COUP_JWT_SECRET", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
	}

	level, err := logrus.ParseLevel(getEnv("COUP_LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	cfg.LogLevel = level

	if cfg.JWTSecret == "" {
		logrus.Warn("COUP_JWT_SECRET not set; session tokens will not survive restarts")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func secondsEnv(key string, fallback int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Second
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		logrus.WithField("key", key).Warnf("Invalid value %q, using %ds", raw, fallback)
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(n) * time.Second
}
