package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"miniapp-shop/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// PostgresRepository is both a catalog source and a catalog writer.
type PostgresRepository interface {
	Repository
	Writer
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) PostgresRepository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Info(ctx context.Context) (*domain.ShopInfo, error) {
	const q = `
SELECT cover_image, logo_image, name, kitchen_categories, rating, cooking_time, status
FROM shop_info
WHERE id = 1
`
	var info domain.ShopInfo
	err := r.pool.QueryRow(ctx, q).Scan(&info.CoverImage, &info.LogoImage, &info.Name, &info.KitchenCategories, &info.Rating, &info.CookingTime, &info.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &info, nil
}

func (r *postgresRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id, icon, name, background_color
FROM categories
ORDER BY position ASC, name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("catalog repo: list categories error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Icon, &c.Name, &c.BackgroundColor); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) ListMenu(ctx context.Context, categoryID string) ([]domain.MenuItem, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, categoryID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	const q = `
SELECT id, category_id, name, description, image, discount, gallery, variants
FROM menu_items
WHERE category_id = $1
ORDER BY position ASC, name ASC
`
	rows, err := r.pool.Query(ctx, q, categoryID)
	if err != nil {
		r.logger.Printf("catalog repo: list menu category_id=%s error=%v", categoryID, err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.MenuItem{}
	for rows.Next() {
		var it domain.MenuItem
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Description, &it.Image, &it.Discount, &it.Gallery, &it.Variants); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	const q = `
SELECT id, category_id, name, description, image, discount, gallery, variants
FROM menu_items
WHERE id = $1
`
	var it domain.MenuItem
	err := r.pool.QueryRow(ctx, q, id).Scan(&it.ID, &it.CategoryID, &it.Name, &it.Description, &it.Image, &it.Discount, &it.Gallery, &it.Variants)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: get item id=%s error=%v", id, err)
		return nil, err
	}
	return &it, nil
}

func (r *postgresRepo) UpsertInfo(ctx context.Context, info domain.ShopInfo) error {
	const q = `
INSERT INTO shop_info (id, cover_image, logo_image, name, kitchen_categories, rating, cooking_time, status)
VALUES (1, $1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET cover_image = EXCLUDED.cover_image,
    logo_image = EXCLUDED.logo_image,
    name = EXCLUDED.name,
    kitchen_categories = EXCLUDED.kitchen_categories,
    rating = EXCLUDED.rating,
    cooking_time = EXCLUDED.cooking_time,
    status = EXCLUDED.status
`
	_, err := r.pool.Exec(ctx, q, info.CoverImage, info.LogoImage, info.Name, info.KitchenCategories, info.Rating, info.CookingTime, info.Status)
	return err
}

func (r *postgresRepo) UpsertCategory(ctx context.Context, c domain.Category, position int) error {
	const q = `
INSERT INTO categories (id, icon, name, background_color, position)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET icon = EXCLUDED.icon,
    name = EXCLUDED.name,
    background_color = EXCLUDED.background_color,
    position = EXCLUDED.position
`
	_, err := r.pool.Exec(ctx, q, c.ID, c.Icon, c.Name, c.BackgroundColor, position)
	if err != nil {
		r.logger.Printf("catalog repo: upsert category id=%s error=%v", c.ID, err)
	}
	return err
}

func (r *postgresRepo) UpsertItem(ctx context.Context, item domain.MenuItem, position int) error {
	const q = `
INSERT INTO menu_items (id, category_id, name, description, image, discount, gallery, variants, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE
SET category_id = EXCLUDED.category_id,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    image = EXCLUDED.image,
    discount = EXCLUDED.discount,
    gallery = EXCLUDED.gallery,
    variants = EXCLUDED.variants,
    position = EXCLUDED.position
`
	gallery := item.Gallery
	if gallery == nil {
		gallery = []string{}
	}
	variants := item.Variants
	if variants == nil {
		variants = []domain.Variant{}
	}
	_, err := r.pool.Exec(ctx, q, item.ID, item.CategoryID, item.Name, item.Description, item.Image, item.Discount, gallery, variants, position)
	if err != nil {
		r.logger.Printf("catalog repo: upsert item id=%s category_id=%s error=%v", item.ID, item.CategoryID, err)
	}
	return err
}
