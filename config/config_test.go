package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("TIMEZONE_FILE", "")
	t.Setenv("HTTP_ADDR", "")
	cfg := Load()
	if cfg.TimezoneFile != "user_timezones.json" {
		t.Errorf("TimezoneFile = %q, want default user_timezones.json", cfg.TimezoneFile)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("TIMEZONE_FILE", "/data/tz.json")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("COMMAND_GUILD_ID", "123")
	cfg := Load()
	if cfg.DiscordToken != "tok" || cfg.TimezoneFile != "/data/tz.json" || cfg.HTTPAddr != ":9999" || cfg.CommandGuildID != "123" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestValidateBotReady(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	if err := Load().ValidateBotReady(); err != nil {
		t.Errorf("expected valid bot config, got %v", err)
	}

	t.Setenv("DISCORD_TOKEN", "")
	err := Load().ValidateBotReady()
	if err == nil {
		t.Fatal("expected error when DISCORD_TOKEN missing")
	}
	if !strings.Contains(err.Error(), "DISCORD_TOKEN") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}
