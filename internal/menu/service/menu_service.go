package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"comandero/internal/domain"
)

type MenuRepository interface {
	FindActiveMenu(ctx context.Context, restaurantID int) ([]domain.Category, error)
}

type MenuService struct {
	repo   MenuRepository
	logger *zap.Logger
}

func NewMenuService(repo MenuRepository, logger *zap.Logger) *MenuService {
	return &MenuService{
		repo:   repo,
		logger: logger,
	}
}

// Snapshot reads the restaurant's orderable menu once. Callers validate against the returned
// value, never against live rows.
func (s *MenuService) Snapshot(ctx context.Context, restaurant domain.Restaurant) (*domain.MenuSnapshot, error) {
	categories, err := s.repo.FindActiveMenu(ctx, restaurant.ID)
	if err != nil {
		return nil, fmt.Errorf("loading menu for restaurant %d: %w", restaurant.ID, err)
	}

	snapshot := domain.NewMenuSnapshot(restaurant, categories)
	s.logger.Debug("menu snapshot built",
		zap.String("slug", restaurant.Slug),
		zap.Int("categoryCount", len(snapshot.Categories)),
		zap.Int("itemCount", snapshot.ItemCount()),
	)
	return snapshot, nil
}
