package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	TokenSecret      []byte
	TokenTTL         time.Duration
	MaxLoginAttempts int
	ResetTokenTTL    time.Duration

	PollDuration      time.Duration
	PollSweepInterval time.Duration

	DiscordBotToken  string
	DiscordChannelID string
}

// Load reads configuration from the environment, sourcing a local .env file
// first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "modpanel"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	secret := strings.TrimSpace(os.Getenv("TOKEN_SECRET"))
	if secret == "" {
		return Config{}, errors.New("TOKEN_SECRET is required")
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		TokenSecret:      []byte(secret),
		TokenTTL:         envDuration("TOKEN_TTL", time.Hour),
		MaxLoginAttempts: envInt("MAX_LOGIN_ATTEMPTS", 3),
		ResetTokenTTL:    envDuration("RESET_TOKEN_TTL", time.Hour),

		PollDuration:      envDuration("POLL_DURATION", 7*24*time.Hour),
		PollSweepInterval: envDuration("POLL_SWEEP_INTERVAL", time.Minute),

		DiscordBotToken:  strings.TrimSpace(os.Getenv("DISCORD_BOT_TOKEN")),
		DiscordChannelID: strings.TrimSpace(os.Getenv("DISCORD_CHANNEL_ID")),
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
