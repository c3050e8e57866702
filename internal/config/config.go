package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	ShutdownTimeout time.Duration

	BotToken             string
	PaymentProviderToken string
	WebhookURL           string
	WebhookSecret        string
	AppURL               string
	DevMode              bool
	DevAppURL            string
	ShopName             string

	OrderChannelID int64
	AdminChatIDs   []int64
	NotifyRate     float64

	PriceMultiplier int64
	DefaultCurrency string

	OrderStore    string
	OrdersFile    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CatalogSource string
	CatalogDir    string
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:    envOrDefault("DB_DSN", ""),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),

		BotToken:             envOrDefault("BOT_TOKEN", ""),
		PaymentProviderToken: envOrDefault("PAYMENT_PROVIDER_TOKEN", ""),
		WebhookURL:           strings.TrimRight(envOrDefault("WEBHOOK_URL", ""), "/"),
		WebhookSecret:        envOrDefault("WEBHOOK_SECRET", ""),
		AppURL:               envOrDefault("APP_URL", ""),
		DevMode:              envBool("DEV_MODE", false),
		DevAppURL:            envOrDefault("DEV_APP_URL", ""),
		ShopName:             envOrDefault("SHOP_NAME", "La Fleur"),

		OrderChannelID: envInt64("ORDER_CHANNEL_ID", 0),
		AdminChatIDs:   envInt64List("ADMIN_CHAT_IDS"),
		NotifyRate:     envFloat("NOTIFY_RATE_PER_SECOND", 25),

		PriceMultiplier: envInt64("PRICE_MULTIPLIER", 100),
		DefaultCurrency: envOrDefault("DEFAULT_CURRENCY", "RUB"),

		OrderStore:    strings.ToLower(envOrDefault("ORDER_STORE", "file")),
		OrdersFile:    envOrDefault("ORDERS_FILE", "data/orders.json"),
		RedisAddr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       int(envInt64("REDIS_DB", 0)),

		CatalogSource: strings.ToLower(envOrDefault("CATALOG_SOURCE", "file")),
		CatalogDir:    envOrDefault("CATALOG_DIR", "data"),
	}
}

// AllowedOrigins lists the CORS origins the Mini App is served from.
func (c Config) AllowedOrigins() []string {
	var origins []string
	if c.AppURL != "" {
		origins = append(origins, c.AppURL)
	}
	if c.DevMode && c.DevAppURL != "" {
		origins = append(origins, c.DevAppURL)
	}
	return origins
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
		return b
	}
	// DEV_MODE is treated as a presence flag when it holds a non-boolean value.
	return true
}

// envInt64List parses a comma-separated list of ids, skipping blanks and junk.
func envInt64List(key string) []int64 {
	var out []int64
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
