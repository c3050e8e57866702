package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"miniapp-shop/internal/domain"
)

type redisRepo struct {
	client *redis.Client
}

// NewRedis stores each draft under its own key without expiry. Pop relies on
// GETDEL, so a draft is handed out at most once.
func NewRedis(client *redis.Client) Repository {
	return &redisRepo{client: client}
}

func (r *redisRepo) Put(ctx context.Context, id string, order domain.DraftOrder) error {
	order.ID = id
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order failed: %w", err)
	}
	if err := r.client.Set(ctx, orderKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *redisRepo) Get(ctx context.Context, id string) (*domain.DraftOrder, error) {
	data, err := r.client.Get(ctx, orderKey(id)).Bytes()
	return decodeRedis(data, err)
}

func (r *redisRepo) Pop(ctx context.Context, id string) (*domain.DraftOrder, error) {
	data, err := r.client.GetDel(ctx, orderKey(id)).Bytes()
	return decodeRedis(data, err)
}

func decodeRedis(data []byte, err error) (*domain.DraftOrder, error) {
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var order domain.DraftOrder
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order failed: %w", err)
	}
	return &order, nil
}

func orderKey(id string) string {
	return fmt.Sprintf("order:%s", id)
}
