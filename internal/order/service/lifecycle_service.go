package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"comandero/internal/domain"
	"comandero/internal/dto"
	apperrors "comandero/internal/errors"
	"comandero/internal/infrastructure/mysql"
)

// publishTimeout bounds a kitchen notification sent after commit. It no longer depends on the
// request: a client that hangs up does not cancel a notification for a committed change.
const publishTimeout = 5 * time.Second

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx mysql.DBTX, order domain.Order) error
	FindByIDAndRestaurant(ctx context.Context, id uuid.UUID, restaurantID int) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, tx mysql.DBTX, id uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx mysql.DBTX, id uuid.UUID, from, to domain.OrderStatus) (bool, error)
	ListActive(ctx context.Context, restaurantID int) ([]domain.Order, error)
}

type OrderLineRepository interface {
	Insert(ctx context.Context, tx mysql.DBTX, line domain.OrderLine) (int64, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error)
	FindByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderLine, error)
}

type RestaurantRepository interface {
	FindByID(ctx context.Context, tx mysql.DBTX, id int) (*domain.Restaurant, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Restaurant, error)
	IsMember(ctx context.Context, restaurantID int, userID uuid.UUID) (bool, error)
	IsMemberTx(ctx context.Context, tx mysql.DBTX, restaurantID int, userID uuid.UUID) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, restaurantSlug string, msg dto.OrderResponse) error
}

// CreateInput is a confirmed order that already went through menu validation and pricing.
type CreateInput struct {
	TableIdentifier *string
	RawInput        string
	ParsedJSON      []byte
	Order           domain.ValidatedOrder
}

// LifecycleService owns every write to Orders. Kitchen notifications go out only after the
// write that caused them is committed.
type LifecycleService struct {
	txManager      TransactionManager
	orderRepo      OrderRepository
	lineRepo       OrderLineRepository
	restaurantRepo RestaurantRepository
	publisher      Publisher
	logger         *zap.Logger
	txTimeout      time.Duration
}

func NewLifecycleService(
	txManager TransactionManager,
	orderRepo OrderRepository,
	lineRepo OrderLineRepository,
	restaurantRepo RestaurantRepository,
	publisher Publisher,
	logger *zap.Logger,
	txTimeout time.Duration,
) *LifecycleService {
	return &LifecycleService{
		txManager:      txManager,
		orderRepo:      orderRepo,
		lineRepo:       lineRepo,
		restaurantRepo: restaurantRepo,
		publisher:      publisher,
		logger:         logger,
		txTimeout:      txTimeout,
	}
}

func (s *LifecycleService) Create(ctx context.Context, restaurant domain.Restaurant, input CreateInput) (*domain.Order, error) {
	if input.Order.IsEmpty() {
		return nil, apperrors.NewValidationError("order has no items")
	}

	// Bloque 1: Iniciar transacción con timeout
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.txManager.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	// Bloque 2: Insertar orden y líneas
	now := time.Now().UTC()
	order := domain.Order{
		ID:              uuid.New(),
		RestaurantID:    restaurant.ID,
		TableIdentifier: input.TableIdentifier,
		Status:          domain.OrderStatusConfirmed,
		RawInput:        input.RawInput,
		ParsedJSON:      input.ParsedJSON,
		Language:        input.Order.Language,
		TotalPrice:      input.Order.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if order.Language == "" {
		order.Language = domain.DefaultLanguage
	}

	if err := s.orderRepo.Insert(txCtx, tx, order); err != nil {
		s.logger.Error("failed to insert order", zap.String("orderId", order.ID.String()), zap.Error(err))
		return nil, err
	}

	lines := make([]domain.OrderLine, 0, len(input.Order.Items))
	for _, item := range input.Order.Items {
		line := domain.OrderLine{
			OrderID:         order.ID,
			MenuItemID:      item.MenuItemID,
			VariantID:       item.Variant.ID,
			Quantity:        item.Quantity,
			SpecialRequests: item.SpecialRequests,
			ModifierIDs:     item.ModifierIDs(),
			Name:            item.Name,
			VariantLabel:    item.Variant.Label,
			VariantPrice:    item.Variant.Price,
		}
		line.ID, err = s.lineRepo.Insert(txCtx, tx, line)
		if err != nil {
			s.logger.Error("failed to insert order line", zap.String("orderId", order.ID.String()), zap.Int("menuItemId", item.MenuItemID), zap.Error(err))
			return nil, err
		}
		lines = append(lines, line)
	}
	order.Lines = lines

	// Bloque 3: Commit y notificación
	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", order.ID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("orderId", order.ID.String()),
		zap.String("restaurant", restaurant.Slug),
		zap.Int("lineCount", len(lines)),
		zap.String("totalPrice", order.TotalPrice.StringFixed(2)),
	)

	s.publish(ctx, restaurant.Slug, order)
	return &order, nil
}

// Transition moves an order one step along the kitchen workflow on behalf of actorID. Actors
// that are neither owner nor staff of the order's restaurant get the same NotFound as an
// unknown order id.
func (s *LifecycleService) Transition(ctx context.Context, actorID, orderID uuid.UUID, target domain.OrderStatus) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.txManager.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	// Everything until commit runs on tx: the row lock is held and a second pooled
	// connection may never come.
	member, err := s.restaurantRepo.IsMemberTx(txCtx, tx, order.RestaurantID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		s.logger.Warn("transition denied", zap.String("orderId", orderID.String()), zap.String("actorId", actorID.String()))
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", orderID))
	}

	allowed := domain.StatusStrings(order.Status.AllowedNext())
	if !order.Status.CanTransitionTo(target) {
		return nil, apperrors.NewInvalidTransitionError(string(order.Status), string(target), allowed)
	}

	restaurant, err := s.restaurantRepo.FindByID(txCtx, tx, order.RestaurantID)
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.UpdateStatus(txCtx, tx, orderID, order.Status, target)
	if err != nil {
		s.logger.Error("failed to update order status", zap.String("orderId", orderID.String()), zap.Error(err))
		return nil, err
	}
	if !updated {
		s.logger.Warn("order status changed concurrently", zap.String("orderId", orderID.String()), zap.String("expected", string(order.Status)))
		return nil, apperrors.NewInvalidTransitionError(string(order.Status), string(target), allowed)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", orderID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("orderId", orderID.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(target)),
		zap.String("actorId", actorID.String()),
	)

	order.Status = target
	order.UpdatedAt = time.Now().UTC()
	order.Lines, err = s.lineRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("failed to load order lines", zap.String("orderId", orderID.String()), zap.Error(err))
		order.Lines = []domain.OrderLine{}
	}

	s.publish(ctx, restaurant.Slug, *order)
	return order, nil
}

// Find is the public status lookup. An order of another restaurant is reported as not found.
func (s *LifecycleService) Find(ctx context.Context, slug string, orderID uuid.UUID) (*domain.Order, error) {
	restaurant, err := s.restaurantRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByIDAndRestaurant(ctx, orderID, restaurant.ID)
	if err != nil {
		return nil, err
	}

	order.Lines, err = s.lineRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Authorize resolves the restaurant and checks that actorID may operate its kitchen.
func (s *LifecycleService) Authorize(ctx context.Context, actorID uuid.UUID, slug string) (*domain.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	member, err := s.restaurantRepo.IsMember(ctx, restaurant.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		s.logger.Warn("kitchen access denied", zap.String("restaurant", slug), zap.String("actorId", actorID.String()))
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant %s not found", slug))
	}
	return restaurant, nil
}

// ListActive returns every order of the restaurant that is not completed, newest first, so a
// kitchen display can catch up on notifications it missed.
func (s *LifecycleService) ListActive(ctx context.Context, actorID uuid.UUID, slug string) ([]domain.Order, error) {
	restaurant, err := s.Authorize(ctx, actorID, slug)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListActive(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	lines, err := s.lineRepo.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
		if orders[i].Lines == nil {
			orders[i].Lines = []domain.OrderLine{}
		}
	}
	return orders, nil
}

func (s *LifecycleService) publish(ctx context.Context, slug string, order domain.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, slug, dto.NewOrderResponse(order)); err != nil {
		s.logger.Warn("failed to notify kitchen",
			zap.String("orderId", order.ID.String()),
			zap.String("topic", domain.KitchenTopic(slug)),
			zap.Error(err),
		)
	}
}
