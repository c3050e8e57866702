package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"miniapp-shop/internal/config"
	"miniapp-shop/internal/db"
	"miniapp-shop/internal/httpserver"
	catalogrepo "miniapp-shop/internal/repository/catalog"
	orderrepo "miniapp-shop/internal/repository/order"
)

// backends holds the storage selected by ORDER_STORE and CATALOG_SOURCE.
type backends struct {
	orders      orderrepo.Repository
	catalog     catalogrepo.Repository
	readyChecks map[string]httpserver.ReadyCheck
	closers     []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackends(ctx context.Context, cfg config.Config, logger *log.Logger) (*backends, error) {
	b := &backends{readyChecks: map[string]httpserver.ReadyCheck{}}

	var pool *pgxpool.Pool
	if cfg.OrderStore == "postgres" || cfg.CatalogSource == "postgres" {
		p, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		pool = p
		b.closers = append(b.closers, pool.Close)
		b.readyChecks["db"] = pool.Ping
	}

	switch cfg.OrderStore {
	case "memory":
		b.orders = orderrepo.NewMemory()
	case "file":
		b.orders = orderrepo.NewFile(cfg.OrdersFile, logger)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			b.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.readyChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		b.orders = orderrepo.NewRedis(client)
	case "postgres":
		b.orders = orderrepo.NewPostgres(pool)
	default:
		b.Close()
		return nil, fmt.Errorf("unknown ORDER_STORE %q", cfg.OrderStore)
	}

	switch cfg.CatalogSource {
	case "file":
		b.catalog = catalogrepo.NewFile(cfg.CatalogDir, logger)
	case "postgres":
		b.catalog = catalogrepo.NewPostgres(pool, logger)
	default:
		b.Close()
		return nil, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
	}

	logger.Printf("order store=%s catalog source=%s", cfg.OrderStore, cfg.CatalogSource)
	return b, nil
}
