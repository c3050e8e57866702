package order

import (
	"context"

	"miniapp-shop/internal/domain"
)

// Repository stores draft orders until payment confirmation claims them.
// Put overwrites an existing draft with the same id; callers supply unique ids.
// Get and Pop return domain.ErrNotFound for unknown ids.
type Repository interface {
	Put(ctx context.Context, id string, order domain.DraftOrder) error
	Get(ctx context.Context, id string) (*domain.DraftOrder, error)
	Pop(ctx context.Context, id string) (*domain.DraftOrder, error)
}

func cloneOrder(o domain.DraftOrder) *domain.DraftOrder {
	out := o
	if o.Lines != nil {
		out.Lines = append([]domain.OrderLine(nil), o.Lines...)
	}
	return &out
}
