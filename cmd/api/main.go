package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"miniapp-shop/internal/bot"
	"miniapp-shop/internal/config"
	"miniapp-shop/internal/httpserver"
	"miniapp-shop/internal/initdata"
	"miniapp-shop/internal/invoice"
	"miniapp-shop/internal/notify"
	catalogsvc "miniapp-shop/internal/service/catalog"
	ordersvc "miniapp-shop/internal/service/order"
	paymentsvc "miniapp-shop/internal/service/payment"
	"miniapp-shop/internal/telegram"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := tgbotapi.SetLogger(logger); err != nil {
		logger.Printf("set bot logger: %v", err)
	}

	if cfg.BotToken == "" {
		logger.Fatalf("BOT_TOKEN is required")
	}

	ctx := context.Background()
	backends, err := openBackends(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open backends: %v", err)
	}
	defer backends.Close()

	client, err := telegram.Connect(cfg.BotToken, "", cfg.PaymentProviderToken, cfg.DevMode, logger)
	if err != nil {
		logger.Fatalf("connect bot: %v", err)
	}
	logger.Printf("authorized as @%s", client.Username())

	sink := notify.NewSink(client, cfg.OrderChannelID, cfg.AdminChatIDs, notify.NewLimiter(cfg.NotifyRate), logger)
	reconciler := paymentsvc.New(backends.orders, sink, client, cfg.PriceMultiplier, logger)
	orderService := ordersvc.New(
		initdata.NewValidator(cfg.BotToken),
		invoice.NewComposer(cfg.PriceMultiplier),
		backends.orders,
		client,
		ordersvc.Options{ShopName: cfg.ShopName, DefaultCurrency: cfg.DefaultCurrency},
		logger,
	)
	updates := bot.NewHandler(client, reconciler, bot.Options{ShopName: cfg.ShopName, AppURL: cfg.AppURL}, logger)

	webhookSecret := cfg.WebhookSecret
	if webhookSecret == "" {
		webhookSecret = ordersvc.NewOrderID()
	}
	if err := client.RefreshWebhook(ctx, cfg.WebhookURL, webhookSecret); err != nil {
		logger.Printf("refresh webhook: %v", err)
	}

	deps := httpserver.Deps{
		CatalogSvc:     catalogsvc.New(backends.catalog),
		OrderSvc:       orderService,
		AllowedOrigins: cfg.AllowedOrigins(),
		ReadyChecks:    backends.readyChecks,
		WebhookSecret:  webhookSecret,
	}
	pollCtx, stopPolling := context.WithCancel(ctx)
	defer stopPolling()
	if cfg.WebhookURL != "" {
		deps.UpdateHandler = updates
	} else {
		go client.Poll(pollCtx, updates.Handle)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, deps)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	stopPolling()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
