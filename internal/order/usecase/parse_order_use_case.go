package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"comandero/internal/domain"
	"comandero/internal/dto"
	menuservice "comandero/internal/menu/service"
	"comandero/internal/order/pricing"
)

type RestaurantRepository interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Restaurant, error)
}

type MenuService interface {
	Snapshot(ctx context.Context, restaurant domain.Restaurant) (*domain.MenuSnapshot, error)
}

type OrderParser interface {
	Parse(ctx context.Context, rawText, menuContext string) (*domain.CandidateOrder, error)
}

type ParseOrderUseCase struct {
	restaurantRepo RestaurantRepository
	menuSvc        MenuService
	parser         OrderParser
	logger         *zap.Logger
}

func NewParseOrderUseCase(restaurantRepo RestaurantRepository, menuSvc MenuService, parser OrderParser, logger *zap.Logger) *ParseOrderUseCase {
	return &ParseOrderUseCase{
		restaurantRepo: restaurantRepo,
		menuSvc:        menuSvc,
		parser:         parser,
		logger:         logger,
	}
}

// Parse interprets free text against the restaurant's current menu and prices what resolved.
// Nothing is persisted; the customer reviews the result and confirms it separately.
func (uc *ParseOrderUseCase) Parse(ctx context.Context, slug string, req dto.ParseOrderRequest) (*dto.ValidatedOrderResponse, error) {
	restaurant, err := uc.restaurantRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	snapshot, err := uc.menuSvc.Snapshot(ctx, *restaurant)
	if err != nil {
		return nil, err
	}

	candidate, err := uc.parser.Parse(ctx, strings.TrimSpace(req.RawInput), menuservice.RenderContext(snapshot))
	if err != nil {
		return nil, err
	}

	validated := pricing.ValidateAndPrice(snapshot, *candidate)

	uc.logger.Info("order parsed",
		zap.String("restaurant", slug),
		zap.Int("candidateItems", len(candidate.Items)),
		zap.Int("validItems", len(validated.Items)),
		zap.String("language", validated.Language),
	)

	resp := dto.NewValidatedOrderResponse(validated)
	return &resp, nil
}
