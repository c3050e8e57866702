package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"miniapp-shop/internal/domain"
	"miniapp-shop/internal/repository/catalog"
)

type itemSeed struct {
	Category string
	Item     domain.MenuItem
}

var demoInfo = domain.ShopInfo{
	Name:              "La Fleur",
	KitchenCategories: "Bouquets, Roses, Plants",
	Rating:            "4.9",
	CookingTime:       "60-90 min",
	Status:            "Open",
}

var demoCategories = []domain.Category{
	{ID: "bouquets", Icon: "💐", Name: "Bouquets", BackgroundColor: "#F8E1E7"},
	{ID: "roses", Icon: "🌹", Name: "Roses", BackgroundColor: "#FCE4E4"},
	{ID: "plants", Icon: "🪴", Name: "Plants", BackgroundColor: "#E3F2E1"},
}

var demoItems = []itemSeed{
	{Category: "bouquets", Item: domain.MenuItem{
		ID:          "spring-mix",
		Name:        "Spring mix",
		Description: "Tulips, freesia and eucalyptus",
		Variants: []domain.Variant{
			{ID: "small", Name: "Small", Cost: decimal.NewFromInt(2500)},
			{ID: "large", Name: "Large", Cost: decimal.NewFromInt(4200)},
		},
	}},
	{Category: "roses", Item: domain.MenuItem{
		ID:          "red-rose",
		Name:        "Red rose",
		Description: "Single stem, 60 cm",
		Discount:    10,
		Variants:    []domain.Variant{{ID: "stem", Name: "Stem", Cost: decimal.NewFromInt(250)}},
	}},
	{Category: "plants", Item: domain.MenuItem{
		ID:          "monstera",
		Name:        "Monstera",
		Description: "In a ceramic pot",
		Variants:    []domain.Variant{{ID: "m", Name: "Medium", Cost: decimal.NewFromInt(3900), Weight: "3 kg"}},
	}},
}

// Apply writes a demo catalog for manual testing. It is idempotent since the
// writer upserts by id.
func Apply(ctx context.Context, w catalog.Writer) error {
	if err := w.UpsertInfo(ctx, demoInfo); err != nil {
		return fmt.Errorf("upsert info: %w", err)
	}
	for pos, c := range demoCategories {
		if err := w.UpsertCategory(ctx, c, pos); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.ID, err)
		}
	}
	positions := map[string]int{}
	for _, s := range demoItems {
		item := s.Item
		item.CategoryID = s.Category
		if err := w.UpsertItem(ctx, item, positions[s.Category]); err != nil {
			return fmt.Errorf("upsert item %s: %w", item.ID, err)
		}
		positions[s.Category]++
	}
	return nil
}
