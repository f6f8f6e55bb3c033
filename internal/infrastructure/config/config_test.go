package config

import (
	"os"
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg = applyDefaults(cfg)

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.TokenTTL.Minutes() != 30 {
		t.Errorf("expected 30m, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Feed.BaseURL != "https://mds-api.forexfactory.com" {
		t.Errorf("unexpected feed base url: %s", cfg.Feed.BaseURL)
	}
	if cfg.Feed.Timeout != 10*time.Second {
		t.Errorf("expected 10s feed timeout, got %v", cfg.Feed.Timeout)
	}
	if cfg.Monitor.Interval != time.Minute {
		t.Errorf("expected 1m monitor interval, got %v", cfg.Monitor.Interval)
	}
	if cfg.Bias.Model != "gemini-2.0-flash" {
		t.Errorf("unexpected bias model: %s", cfg.Bias.Model)
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("TELEGRAM_BOT_TOKEN", "tok-123")
	os.Setenv("TELEGRAM_CHAT_ID", "4567")
	defer func() {
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("TELEGRAM_BOT_TOKEN")
		os.Unsetenv("TELEGRAM_CHAT_ID")
	}()

	cfg := Config{}
	cfg = applyEnv(cfg)

	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.HTTP.Addr)
	}
	if !cfg.Notifier.Telegram.Enabled || cfg.Notifier.Telegram.Token != "tok-123" {
		t.Errorf("telegram env not applied: %+v", cfg.Notifier.Telegram)
	}
	if cfg.Notifier.Telegram.ChatID != 4567 {
		t.Errorf("expected chat id 4567, got %d", cfg.Notifier.Telegram.ChatID)
	}
}

func TestConfig_BadChatID(t *testing.T) {
	os.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
	defer os.Unsetenv("TELEGRAM_CHAT_ID")

	cfg := applyEnv(Config{})
	if cfg.Notifier.Telegram.ChatID != 0 {
		t.Errorf("invalid chat id should be ignored, got %d", cfg.Notifier.Telegram.ChatID)
	}
}
