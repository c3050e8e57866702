package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PRICE_MULTIPLIER", "")
	t.Setenv("ORDER_STORE", "")
	t.Setenv("ADMIN_CHAT_IDS", "")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "")

	cfg := FromEnv()
	if cfg.PriceMultiplier != 100 {
		t.Fatalf("expected default multiplier 100, got %d", cfg.PriceMultiplier)
	}
	if cfg.OrderStore != "file" {
		t.Fatalf("expected file store by default, got %q", cfg.OrderStore)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
	}
	if len(cfg.AdminChatIDs) != 0 {
		t.Fatalf("expected no admins, got %v", cfg.AdminChatIDs)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PRICE_MULTIPLIER", "1000")
	t.Setenv("ADMIN_CHAT_IDS", "11, 22,,bad,33")
	t.Setenv("ORDER_CHANNEL_ID", "-100123")
	t.Setenv("ORDER_STORE", "Redis")
	t.Setenv("WEBHOOK_URL", "https://example.com/")
	t.Setenv("WEBHOOK_SECRET", "hook-secret")

	cfg := FromEnv()
	if cfg.PriceMultiplier != 1000 {
		t.Fatalf("expected multiplier 1000, got %d", cfg.PriceMultiplier)
	}
	if len(cfg.AdminChatIDs) != 3 || cfg.AdminChatIDs[0] != 11 || cfg.AdminChatIDs[2] != 33 {
		t.Fatalf("unexpected admin ids %v", cfg.AdminChatIDs)
	}
	if cfg.OrderChannelID != -100123 {
		t.Fatalf("unexpected channel id %d", cfg.OrderChannelID)
	}
	if cfg.OrderStore != "redis" {
		t.Fatalf("expected lower-cased store kind, got %q", cfg.OrderStore)
	}
	if cfg.WebhookURL != "https://example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.WebhookURL)
	}
	if cfg.WebhookSecret != "hook-secret" {
		t.Fatalf("unexpected webhook secret %q", cfg.WebhookSecret)
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Config{AppURL: "https://shop.example", DevAppURL: "http://localhost:5173"}
	if got := cfg.AllowedOrigins(); len(got) != 1 {
		t.Fatalf("expected only app url outside dev mode, got %v", got)
	}
	cfg.DevMode = true
	if got := cfg.AllowedOrigins(); len(got) != 2 || got[1] != "http://localhost:5173" {
		t.Fatalf("expected dev origin appended, got %v", got)
	}
}
