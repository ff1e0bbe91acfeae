package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"comandero/internal/domain"
	apperrors "comandero/internal/errors"
	"comandero/internal/infrastructure/mysql"
)

type MySQLOrderRepository struct {
	db mysql.DBTX
}

func NewMySQLOrderRepository(db mysql.DBTX) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const selectOrder = `
	SELECT id, restaurantId, tableIdentifier, status, rawInput, parsedJson, language,
	       totalPrice, createdAt, updatedAt
	FROM Orders
`

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx mysql.DBTX, order domain.Order) error {
	query := `
		INSERT INTO Orders (id, restaurantId, tableIdentifier, status, rawInput, parsedJson, language,
		                    totalPrice, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var parsed sql.NullString
	if len(order.ParsedJSON) > 0 {
		parsed = sql.NullString{String: string(order.ParsedJSON), Valid: true}
	}

	_, err := tx.ExecContext(ctx, query,
		order.ID.String(), order.RestaurantID, order.TableIdentifier, string(order.Status), order.RawInput,
		parsed, order.Language, order.TotalPrice, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.findOne(ctx, r.db, selectOrder+"WHERE id = ?", id.String())
}

// FindByIDAndRestaurant hides orders of other restaurants behind the same NotFound as unknown ids.
func (r *MySQLOrderRepository) FindByIDAndRestaurant(ctx context.Context, id uuid.UUID, restaurantID int) (*domain.Order, error) {
	return r.findOne(ctx, r.db, selectOrder+"WHERE id = ? AND restaurantId = ?", id.String(), restaurantID)
}

// FindByIDForUpdate locks the order row until tx ends.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx mysql.DBTX, id uuid.UUID) (*domain.Order, error) {
	return r.findOne(ctx, tx, selectOrder+"WHERE id = ? FOR UPDATE", id.String())
}

// UpdateStatus moves the order from one status to the next only if it is still in from. It reports
// false when another transaction changed the status first.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx mysql.DBTX, id uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	query := `UPDATE Orders SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`

	result, err := tx.ExecContext(ctx, query, string(to), id.String(), string(from))
	if err != nil {
		return false, fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// ListActive returns the restaurant's orders that are not completed, newest first.
func (r *MySQLOrderRepository) ListActive(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	query := selectOrder + `WHERE restaurantId = ? AND status <> ? ORDER BY createdAt DESC, id`

	rows, err := r.db.QueryContext(ctx, query, restaurantID, string(domain.OrderStatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("querying active orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(orderFields(&o)...); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) findOne(ctx context.Context, q mysql.DBTX, query string, args ...any) (*domain.Order, error) {
	var order domain.Order
	err := q.QueryRowContext(ctx, query, args...).Scan(orderFields(&order)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %v not found", args[0]))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order: %w", err)
	}
	return &order, nil
}

func orderFields(o *domain.Order) []any {
	return []any{
		&o.ID, &o.RestaurantID, &o.TableIdentifier, &o.Status, &o.RawInput, &o.ParsedJSON, &o.Language,
		&o.TotalPrice, &o.CreatedAt, &o.UpdatedAt,
	}
}
