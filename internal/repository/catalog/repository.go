package catalog

import (
	"context"
	"regexp"

	"miniapp-shop/internal/domain"
)

// Repository serves the storefront catalog. Unknown categories and items
// yield domain.ErrNotFound.
type Repository interface {
	Info(ctx context.Context) (*domain.ShopInfo, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListMenu(ctx context.Context, categoryID string) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id string) (*domain.MenuItem, error)
}

// Writer loads catalog entries; used by the importer and the seeder.
type Writer interface {
	UpsertInfo(ctx context.Context, info domain.ShopInfo) error
	UpsertCategory(ctx context.Context, c domain.Category, position int) error
	UpsertItem(ctx context.Context, item domain.MenuItem, position int) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidKey reports whether a category or item id is safe to use as a lookup key.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}
