package catalog

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

	"miniapp-shop/internal/domain"
)

// fileRepo reads the catalog from a directory laid out as
// info.json, categories.json and menu/<categoryId>.json.
type fileRepo struct {
	dir    string
	logger *log.Logger
}

func NewFile(dir string, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &fileRepo{dir: dir, logger: logger}
}

func (r *fileRepo) Info(_ context.Context) (*domain.ShopInfo, error) {
	var info domain.ShopInfo
	if err := r.readJSON(filepath.Join(r.dir, "info.json"), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *fileRepo) ListCategories(_ context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := r.readJSON(filepath.Join(r.dir, "categories.json"), &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *fileRepo) ListMenu(_ context.Context, categoryID string) ([]domain.MenuItem, error) {
	if !ValidKey(categoryID) {
		return nil, domain.ErrNotFound
	}
	var items []domain.MenuItem
	if err := r.readJSON(filepath.Join(r.dir, "menu", categoryID+".json"), &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].CategoryID == "" {
			items[i].CategoryID = categoryID
		}
	}
	return items, nil
}

// GetItem scans the menu of every listed category.
func (r *fileRepo) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	if !ValidKey(id) {
		return nil, domain.ErrNotFound
	}
	cats, err := r.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		items, err := r.ListMenu(ctx, c.ID)
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("catalog: category %s listed without menu file", c.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		for i := range items {
			if items[i].ID == id {
				return &items[i], nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fileRepo) readJSON(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
