package telegram

import (
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "bazarbot/core/config"
)

func TestBuildPollerWebhook(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.Telegram.RunMode = coreconfig.RunModeWebhook
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	cfg.Webhook.URL = "https://bot.example.com/hook"

	wh, ok := buildPoller(cfg).(*tele.Webhook)
	if !ok {
		t.Fatal("expected a webhook poller")
	}
	if wh.Listen != "0.0.0.0:8443" {
		t.Fatalf("listen = %q", wh.Listen)
	}
	if wh.Endpoint.PublicURL != "https://bot.example.com/hook" {
		t.Fatalf("public url = %q", wh.Endpoint.PublicURL)
	}
}

func TestBuildPollerLongpollDefaults(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.Telegram.RunMode = coreconfig.RunModeLongpoll

	lp, ok := buildPoller(cfg).(*tele.LongPoller)
	if !ok {
		t.Fatal("expected a long poller")
	}
	if lp.Timeout != 10*time.Second {
		t.Fatalf("timeout = %s, want 10s", lp.Timeout)
	}

	cfg.Telegram.LongPollTimeoutSeconds = 25
	lp = buildPoller(cfg).(*tele.LongPoller)
	if lp.Timeout != 25*time.Second {
		t.Fatalf("timeout = %s, want 25s", lp.Timeout)
	}
}
