package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the bot reads from the environment. It is loaded
// once at startup and never mutated afterwards.
type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN"`
	YouTubeAPIKey string `env:"YOUTUBE_API_KEY"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"?"`
	OwnerID       string `env:"BOT_OWNER_ID"`
	StoragePath   string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	StatusAddr    string `env:"STATUS_ADDR"`
}

// New loads configuration from .env and the environment and validates it.
// Missing or placeholder credentials are a startup error, not something to
// discover at the first command.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects missing credentials and the literal placeholders people
// leave in copied example configs ("discord bot token" and friends).
func (c *Config) Validate() error {
	if isPlaceholder(c.DiscordToken) {
		return fmt.Errorf("DISCORD_TOKEN is not set")
	}
	if c.YouTubeAPIKey != "" && isPlaceholder(c.YouTubeAPIKey) {
		return fmt.Errorf("YOUTUBE_API_KEY looks like a placeholder: %q", c.YouTubeAPIKey)
	}
	if c.CommandPrefix == "" {
		return fmt.Errorf("COMMAND_PREFIX must not be empty")
	}
	return nil
}

// SearchConfigured reports whether the search backend credential is present.
func (c *Config) SearchConfigured() bool {
	return c.YouTubeAPIKey != ""
}

func isPlaceholder(v string) bool {
	return v == "" || strings.Contains(strings.TrimSpace(v), " ")
}
