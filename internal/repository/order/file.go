package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"miniapp-shop/internal/domain"
)

// fileRepo keeps every draft in one JSON object keyed by order id. Each
// mutation rewrites the whole file. The mutex only serialises writers inside
// this process; separate processes sharing the file can lose updates.
type fileRepo struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
}

func NewFile(path string, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &fileRepo{path: path, logger: logger}
}

func (r *fileRepo) Put(_ context.Context, id string, order domain.DraftOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return err
	}
	order.ID = id
	orders[id] = order
	if err := r.save(orders); err != nil {
		return err
	}
	r.logger.Printf("order store: put id=%s lines=%d total_minor=%d", id, len(order.Lines), order.TotalMinor)
	return nil
}

func (r *fileRepo) Get(_ context.Context, id string) (*domain.DraftOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return nil, err
	}
	o, ok := orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *fileRepo) Pop(_ context.Context, id string) (*domain.DraftOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return nil, err
	}
	o, ok := orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(orders, id)
	if err := r.save(orders); err != nil {
		return nil, err
	}
	r.logger.Printf("order store: popped id=%s", id)
	return &o, nil
}

func (r *fileRepo) load() (map[string]domain.DraftOrder, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]domain.DraftOrder), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}
	orders := make(map[string]domain.DraftOrder)
	if len(data) == 0 {
		return orders, nil
	}
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decode orders file %s: %w", r.path, err)
	}
	return orders, nil
}

func (r *fileRepo) save(orders map[string]domain.DraftOrder) error {
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create orders dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write orders file: %w", err)
	}
	return nil
}
