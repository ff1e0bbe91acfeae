package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"comandero/internal/domain"
	"comandero/internal/dto"
	apperrors "comandero/internal/errors"
)

type OrderLifecycle interface {
	Transition(ctx context.Context, actorID, orderID uuid.UUID, target domain.OrderStatus) (*domain.Order, error)
	Find(ctx context.Context, slug string, orderID uuid.UUID) (*domain.Order, error)
	Authorize(ctx context.Context, actorID uuid.UUID, slug string) (*domain.Restaurant, error)
	ListActive(ctx context.Context, actorID uuid.UUID, slug string) ([]domain.Order, error)
}

type KitchenUseCase struct {
	lifecycle        OrderLifecycle
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewKitchenUseCase(lifecycle OrderLifecycle, logger *zap.Logger, maxRetryAttempts int) *KitchenUseCase {
	return &KitchenUseCase{
		lifecycle:        lifecycle,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *KitchenUseCase) Transition(ctx context.Context, actorID, orderID uuid.UUID, status string) (*dto.OrderResponse, error) {
	target, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "must be one of " + strings.Join(domain.StatusStrings(orderStatuses), ", "),
		})
	}

	order, err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, func() (*domain.Order, error) {
		return uc.lifecycle.Transition(ctx, actorID, orderID, target)
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewOrderResponse(*order)
	return &resp, nil
}

func (uc *KitchenUseCase) ListActive(ctx context.Context, actorID uuid.UUID, slug string) (*dto.OrderListResponse, error) {
	orders, err := uc.lifecycle.ListActive(ctx, actorID, slug)
	if err != nil {
		return nil, err
	}

	resp := dto.NewOrderListResponse(orders)
	return &resp, nil
}

// Authorize is used before attaching a live kitchen feed.
func (uc *KitchenUseCase) Authorize(ctx context.Context, actorID uuid.UUID, slug string) (*domain.Restaurant, error) {
	return uc.lifecycle.Authorize(ctx, actorID, slug)
}

// Status is the public order status lookup used by the customer after confirming.
func (uc *KitchenUseCase) Status(ctx context.Context, slug string, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := uc.lifecycle.Find(ctx, slug, orderID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewOrderResponse(*order)
	return &resp, nil
}

var orderStatuses = []domain.OrderStatus{
	domain.OrderStatusPending, domain.OrderStatusConfirmed, domain.OrderStatusPreparing,
	domain.OrderStatusReady, domain.OrderStatusCompleted,
}
