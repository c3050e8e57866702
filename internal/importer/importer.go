// Package importer loads storefront catalogs into a catalog writer.
package importer

import (
	"context"
	"errors"
	"fmt"

	"miniapp-shop/internal/domain"
	"miniapp-shop/internal/repository/catalog"
)

// Stats counts what an import wrote.
type Stats struct {
	Info       bool
	Categories int
	Items      int
}

// Copy writes every entry readable from src into dst, keeping source order as
// position. A source without shop info or a listed category without a menu
// is not an error.
func Copy(ctx context.Context, src catalog.Repository, dst catalog.Writer) (Stats, error) {
	var stats Stats

	info, err := src.Info(ctx)
	switch {
	case err == nil:
		if err := dst.UpsertInfo(ctx, *info); err != nil {
			return stats, fmt.Errorf("upsert info: %w", err)
		}
		stats.Info = true
	case !errors.Is(err, domain.ErrNotFound):
		return stats, fmt.Errorf("read info: %w", err)
	}

	cats, err := src.ListCategories(ctx)
	if err != nil {
		return stats, fmt.Errorf("read categories: %w", err)
	}
	for pos, c := range cats {
		if !catalog.ValidKey(c.ID) {
			return stats, fmt.Errorf("invalid category id %q", c.ID)
		}
		if err := dst.UpsertCategory(ctx, c, pos); err != nil {
			return stats, fmt.Errorf("upsert category %q: %w", c.ID, err)
		}
		stats.Categories++

		items, err := src.ListMenu(ctx, c.ID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("read menu %q: %w", c.ID, err)
		}
		for itemPos, item := range items {
			if err := validItem(item); err != nil {
				return stats, err
			}
			item.CategoryID = c.ID
			if err := dst.UpsertItem(ctx, item, itemPos); err != nil {
				return stats, fmt.Errorf("upsert item %q: %w", item.ID, err)
			}
			stats.Items++
		}
	}
	return stats, nil
}

func validItem(item domain.MenuItem) error {
	if !catalog.ValidKey(item.ID) {
		return fmt.Errorf("invalid item id %q", item.ID)
	}
	if item.Name == "" {
		return fmt.Errorf("item %q has no name", item.ID)
	}
	for _, v := range item.Variants {
		if v.Cost.IsNegative() {
			return fmt.Errorf("item %q variant %q has negative cost", item.ID, v.ID)
		}
	}
	return nil
}
