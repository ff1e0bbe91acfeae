package usecase

import (
	"context"

	"go.uber.org/zap"

	"comandero/internal/domain"
	"comandero/internal/dto"
)

type RestaurantRepository interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Restaurant, error)
}

type MenuService interface {
	Snapshot(ctx context.Context, restaurant domain.Restaurant) (*domain.MenuSnapshot, error)
}

type GetMenuUseCase struct {
	restaurantRepo RestaurantRepository
	menuSvc        MenuService
	logger         *zap.Logger
}

func NewGetMenuUseCase(restaurantRepo RestaurantRepository, menuSvc MenuService, logger *zap.Logger) *GetMenuUseCase {
	return &GetMenuUseCase{
		restaurantRepo: restaurantRepo,
		menuSvc:        menuSvc,
		logger:         logger,
	}
}

func (uc *GetMenuUseCase) GetPublicMenu(ctx context.Context, slug string) (*dto.PublicMenuResponse, error) {
	restaurant, err := uc.restaurantRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	snapshot, err := uc.menuSvc.Snapshot(ctx, *restaurant)
	if err != nil {
		return nil, err
	}

	resp := dto.NewPublicMenuResponse(snapshot)
	return &resp, nil
}
