package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bazarbot/core/buildinfo"
	coreconfig "bazarbot/core/config"
	"bazarbot/core/logger"
	coretelegram "bazarbot/core/telegram"
	"bazarbot/internal/app"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("bazarbot %s (%s) loading config: %s", buildinfo.Version, buildinfo.Commit, cfgPath)
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	application, err := app.Bootstrap(cfg)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := coretelegram.Run(ctx, application.TelegramRunOptions()); err != nil {
		log.Fatalf("bot stopped with error: %v", err)
	}
}
