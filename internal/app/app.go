// Package app wires configuration, logging, storage, and the
// conversation engine into a runnable Telegram bot.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	tele "gopkg.in/telebot.v4"

	coreconfig "bazarbot/core/config"
	coredatabase "bazarbot/core/database"
	"bazarbot/core/logger"
	coretelegram "bazarbot/core/telegram"
	"bazarbot/core/telegram/middleware"
	"bazarbot/core/telegram/sender"
	"bazarbot/internal/blob"
	"bazarbot/internal/bot"
	"bazarbot/internal/catalog"
	"bazarbot/internal/catalog/postgres"
	"bazarbot/internal/catalog/resthttp"
	"bazarbot/internal/flow"
	"bazarbot/internal/session"
)

// App holds the initialized application graph.
type App struct {
	cfg     *coreconfig.Config
	db      *sqlx.DB
	gateway *bot.Gateway
	engine  *flow.Engine
}

// Bootstrap initializes the logger, the catalog backend, and the
// conversation engine. The returned App is ready to produce run
// options for the Telegram runtime.
func Bootstrap(cfg *coreconfig.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}
	if err := logger.Init(cfg); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	gw := bot.NewGateway(sender.New(sender.Options{MaxRetries: 2}))

	a := &App{cfg: cfg, gateway: gw}
	client, err := a.buildCatalog(cfg)
	if err != nil {
		return nil, err
	}

	a.engine = flow.NewEngine(flow.Options{
		Store:      session.NewStore(),
		Catalog:    client,
		Gateway:    gw,
		Currencies: cfg.Listing.Currencies,
		MediaLimit: cfg.Listing.MediaLimit,
	})
	return a, nil
}

func (a *App) buildCatalog(cfg *coreconfig.Config) (catalog.Client, error) {
	switch cfg.Catalog.Backend {
	case coreconfig.CatalogBackendRest:
		logger.L.Info("catalog backend",
			slog.String("event", "backend"),
			slog.String("backend", "rest"),
			slog.String("base_url", cfg.Catalog.BaseURL))
		return resthttp.New(resthttp.Options{
			BaseURL: cfg.Catalog.BaseURL,
			Token:   cfg.Catalog.Token,
			Timeout: time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second,
		}), nil
	case coreconfig.CatalogBackendPostgres:
		var dbCfg coredatabase.Config
		if err := envconfig.Process("", &dbCfg); err != nil {
			return nil, fmt.Errorf("app: database env: %w", err)
		}
		db, err := coredatabase.Connect(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("app: database connect failed: %w", err)
		}
		if err := coredatabase.RunMigrations(dbCfg); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("app: migrations failed: %w", err)
		}
		media, err := blob.NewMinio(cfg.Media)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := media.Init(initCtx); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.db = db
		logger.L.Info("catalog backend",
			slog.String("event", "backend"),
			slog.String("backend", "postgres"))
		return postgres.New(db, media), nil
	}
	return nil, fmt.Errorf("app: unknown catalog backend %q", cfg.Catalog.Backend)
}

// TelegramRunOptions assembles middlewares, routes, and lifecycle
// hooks for the Telegram runtime.
func (a *App) TelegramRunOptions() coretelegram.RunOptions {
	middlewares := []coretelegram.Middleware{
		{Name: "recover", Use: middleware.Recover},
		{Name: "logging", Use: middleware.Logging},
	}
	if a.cfg.RateLimit.IntervalMS > 0 {
		middlewares = append(middlewares, coretelegram.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimit(middleware.RateLimitOptions{
				Interval:         time.Duration(a.cfg.RateLimit.IntervalMS) * time.Millisecond,
				ExcludeCallbacks: a.cfg.RateLimit.ExcludeCallbacks,
			}),
		})
	}

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Middlewares: middlewares,
		Routes:      bot.Routes(a.engine),
		Commands:    bot.Commands(a.engine),
		OnStart: func(ctx context.Context, b *tele.Bot) error {
			a.gateway.Bind(b)
			logger.L.With("component", "app").Info("app ready",
				slog.String("event", "ready"),
				slog.String("bot", b.Me.Username))
			return nil
		},
		OnStop: func(ctx context.Context, b *tele.Bot) error {
			logger.L.With("component", "app").Info("shutting down...",
				slog.String("event", "shutdown"))
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}
}
