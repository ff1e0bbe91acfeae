package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"comandero/internal/domain"
	"comandero/internal/dto"
	"comandero/internal/order/pricing"
	"comandero/internal/order/service"
)

type OrderCreator interface {
	Create(ctx context.Context, restaurant domain.Restaurant, input service.CreateInput) (*domain.Order, error)
}

type ConfirmOrderUseCase struct {
	restaurantRepo   RestaurantRepository
	menuSvc          MenuService
	creator          OrderCreator
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewConfirmOrderUseCase(
	restaurantRepo RestaurantRepository,
	menuSvc MenuService,
	creator OrderCreator,
	logger *zap.Logger,
	maxRetryAttempts int,
) *ConfirmOrderUseCase {
	return &ConfirmOrderUseCase{
		restaurantRepo:   restaurantRepo,
		menuSvc:          menuSvc,
		creator:          creator,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

// Confirm re-resolves every submitted item against the live menu and recomputes all prices
// before persisting. Client-side prices are never read.
func (uc *ConfirmOrderUseCase) Confirm(ctx context.Context, slug string, req dto.ConfirmOrderRequest) (*dto.OrderResponse, error) {
	uc.logger.Info("confirm order started", zap.String("restaurant", slug), zap.Int("itemCount", len(req.Items)))

	restaurant, err := uc.restaurantRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	snapshot, err := uc.menuSvc.Snapshot(ctx, *restaurant)
	if err != nil {
		return nil, err
	}

	validated, err := pricing.PriceConfirmation(snapshot, req.CandidateItems(), req.Language)
	if err != nil {
		uc.logger.Info("confirm rejected", zap.String("restaurant", slug), zap.Error(err))
		return nil, err
	}

	parsed, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding confirmed request: %w", err)
	}

	input := service.CreateInput{
		TableIdentifier: tableIdentifier(req.TableIdentifier),
		RawInput:        req.RawInput,
		ParsedJSON:      parsed,
		Order:           validated,
	}

	order, err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, func() (*domain.Order, error) {
		return uc.creator.Create(ctx, *restaurant, input)
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewOrderResponse(*order)
	return &resp, nil
}

func tableIdentifier(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
