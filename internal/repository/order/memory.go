package order

import (
	"context"
	"sync"

	"miniapp-shop/internal/domain"
)

type memoryRepo struct {
	mu     sync.Mutex
	orders map[string]domain.DraftOrder
}

// NewMemory returns a process-local store. Drafts are lost on restart.
func NewMemory() Repository {
	return &memoryRepo{orders: make(map[string]domain.DraftOrder)}
}

func (r *memoryRepo) Put(_ context.Context, id string, order domain.DraftOrder) error {
	order.ID = id
	r.mu.Lock()
	r.orders[id] = *cloneOrder(order)
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (*domain.DraftOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *memoryRepo) Pop(_ context.Context, id string) (*domain.DraftOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.orders, id)
	return &o, nil
}
