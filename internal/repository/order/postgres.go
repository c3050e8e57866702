package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"miniapp-shop/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Put(ctx context.Context, id string, order domain.DraftOrder) error {
	const q = `
INSERT INTO draft_orders (id, created_at, currency, total_minor, cart, form)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET created_at = EXCLUDED.created_at,
    currency = EXCLUDED.currency,
    total_minor = EXCLUDED.total_minor,
    cart = EXCLUDED.cart,
    form = EXCLUDED.form
`
	lines := order.Lines
	if lines == nil {
		lines = []domain.OrderLine{}
	}
	_, err := r.pool.Exec(ctx, q, id, order.CreatedAt, order.Currency, order.TotalMinor, lines, order.Form)
	return err
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.DraftOrder, error) {
	const q = `
SELECT id, created_at, currency, total_minor, cart, form
FROM draft_orders
WHERE id = $1
`
	return r.scan(ctx, q, id)
}

func (r *postgresRepo) Pop(ctx context.Context, id string) (*domain.DraftOrder, error) {
	const q = `
DELETE FROM draft_orders
WHERE id = $1
RETURNING id, created_at, currency, total_minor, cart, form
`
	return r.scan(ctx, q, id)
}

func (r *postgresRepo) scan(ctx context.Context, q, id string) (*domain.DraftOrder, error) {
	var o domain.DraftOrder
	err := r.pool.QueryRow(ctx, q, id).Scan(&o.ID, &o.CreatedAt, &o.Currency, &o.TotalMinor, &o.Lines, &o.Form)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
