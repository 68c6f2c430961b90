package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds settings for the bot transport.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
	File   string `yaml:"file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// RateLimitConfig throttles inbound updates per user.
type RateLimitConfig struct {
	IntervalMS       int  `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeCallbacks bool `yaml:"exclude_callbacks" envconfig:"RATE_LIMIT_EXCLUDE_CALLBACKS"`
}

// CatalogConfig selects and configures the catalog backend.
type CatalogConfig struct {
	// Backend is "rest" (remote HTTP API) or "postgres" (local storage).
	Backend string `yaml:"backend" envconfig:"CATALOG_BACKEND"`
	BaseURL string `yaml:"base_url" envconfig:"CATALOG_BASE_URL"`
	Token   string `yaml:"token" envconfig:"CATALOG_TOKEN"`
	// TimeoutSeconds bounds every catalog call; 0 -> default
	TimeoutSeconds int `yaml:"timeout_seconds" envconfig:"CATALOG_TIMEOUT_SECONDS"`
}

// MediaConfig configures the object storage holding product media.
type MediaConfig struct {
	Endpoint  string `yaml:"endpoint" envconfig:"MEDIA_ENDPOINT"`
	AccessKey string `yaml:"access_key" envconfig:"MEDIA_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" envconfig:"MEDIA_SECRET_KEY"`
	Bucket    string `yaml:"bucket" envconfig:"MEDIA_BUCKET"`
	UseSSL    bool   `yaml:"use_ssl" envconfig:"MEDIA_USE_SSL"`
}

// ListingConfig tunes the product form.
type ListingConfig struct {
	// Currencies are the accepted price currency symbols.
	Currencies []string `yaml:"currencies" envconfig:"LISTING_CURRENCIES"`
	// MediaLimit caps attachments per listing.
	MediaLimit int `yaml:"media_limit" envconfig:"LISTING_MEDIA_LIMIT"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// CatalogBackendRest selects the remote HTTP catalog.
	CatalogBackendRest = "rest"
	// CatalogBackendPostgres selects the local sqlx-backed catalog.
	CatalogBackendPostgres = "postgres"
)

// Config aggregates the full bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Media     MediaConfig     `yaml:"media"`
	Listing   ListingConfig   `yaml:"listing"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	backend := strings.ToLower(strings.TrimSpace(cfg.Catalog.Backend))
	if backend == "" {
		backend = CatalogBackendRest
	}
	switch backend {
	case CatalogBackendRest:
		if strings.TrimSpace(cfg.Catalog.BaseURL) == "" {
			return fmt.Errorf("catalog.base_url is required when catalog.backend is 'rest'")
		}
	case CatalogBackendPostgres:
	default:
		return fmt.Errorf("invalid catalog.backend %q; allowed: rest, postgres", cfg.Catalog.Backend)
	}
	cfg.Catalog.Backend = backend
	if cfg.Catalog.TimeoutSeconds < 0 {
		return fmt.Errorf("catalog.timeout_seconds must be >= 0")
	}

	if len(cfg.Listing.Currencies) == 0 {
		cfg.Listing.Currencies = []string{"€", "$", "₴"}
	}
	for i, cur := range cfg.Listing.Currencies {
		cur = strings.TrimSpace(cur)
		if cur == "" {
			return fmt.Errorf("listing.currencies must not contain empty symbols")
		}
		cfg.Listing.Currencies[i] = cur
	}
	if cfg.Listing.MediaLimit <= 0 {
		cfg.Listing.MediaLimit = 5
	}

	return nil
}
