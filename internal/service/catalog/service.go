package catalog

import (
	"context"

	"miniapp-shop/internal/domain"
	"miniapp-shop/internal/repository/catalog"
)

type Service struct {
	repo catalog.Repository
}

func New(repo catalog.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Info(ctx context.Context) (*domain.ShopInfo, error) {
	return s.repo.Info(ctx)
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) Menu(ctx context.Context, categoryID string) ([]domain.MenuItem, error) {
	return s.repo.ListMenu(ctx, categoryID)
}

func (s *Service) Item(ctx context.Context, id string) (*domain.MenuItem, error) {
	return s.repo.GetItem(ctx, id)
}
