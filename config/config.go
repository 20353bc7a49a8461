// Package config loads environment variables and provides a typed Config used across the bot.
// It applies sensible defaults so the binary can run locally with minimal setup.
// For the required Discord credential, use ValidateBotReady.
package config

import (
	"fmt"
	"os"
)

type Config struct {
	// Discord
	DiscordToken   string
	CommandGuildID string // when set, commands register to one guild (instant availability in dev)

	// Storage
	TimezoneFile string

	// HTTP (health/metrics)
	HTTPAddr string
}

// Load reads environment variables and applies defaults. It doesn't fail if
// the Discord token is missing; use ValidateBotReady() before connecting.
func Load() *Config {
	cfg := &Config{}

	cfg.DiscordToken = os.Getenv("DISCORD_TOKEN")
	cfg.CommandGuildID = os.Getenv("COMMAND_GUILD_ID")

	cfg.TimezoneFile = os.Getenv("TIMEZONE_FILE")
	if cfg.TimezoneFile == "" {
		cfg.TimezoneFile = "user_timezones.json"
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	return cfg
}

// ValidateBotReady checks the required credential before any network connection.
func (c *Config) ValidateBotReady() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("missing DISCORD_TOKEN: set it in the environment or a .env file (DISCORD_TOKEN=your_bot_token_here)")
	}
	return nil
}
