package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Catalog:  CatalogConfig{Backend: "rest", BaseURL: "http://catalog:8080"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if len(cfg.Listing.Currencies) != 3 {
		t.Fatalf("currencies = %v, want three defaults", cfg.Listing.Currencies)
	}
	if cfg.Listing.MediaLimit != 5 {
		t.Fatalf("media_limit = %d, want 5", cfg.Listing.MediaLimit)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeWebhookValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	err := Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "webhook.url") {
		t.Fatalf("expected webhook.url error, got %v", err)
	}

	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize webhook: %v", err)
	}
}

func TestNormalizeCatalogBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Backend = "mongo"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg = validConfig()
	cfg.Catalog.Backend = "rest"
	cfg.Catalog.BaseURL = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for rest backend without base_url")
	}

	cfg = validConfig()
	cfg.Catalog.Backend = "postgres"
	cfg.Catalog.BaseURL = ""
	if err := Normalize(cfg); err != nil {
		t.Fatalf("postgres backend should not require base_url: %v", err)
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want longpoll alias resolution", cfg.Telegram.RunMode)
	}
}
