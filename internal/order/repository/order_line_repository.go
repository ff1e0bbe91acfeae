package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"comandero/internal/domain"
	"comandero/internal/infrastructure/mysql"
)

type MySQLOrderLineRepository struct {
	db mysql.DBTX
}

func NewMySQLOrderLineRepository(db mysql.DBTX) *MySQLOrderLineRepository {
	return &MySQLOrderLineRepository{db: db}
}

// Insert stores one line and its modifier associations and returns the line id.
func (r *MySQLOrderLineRepository) Insert(ctx context.Context, tx mysql.DBTX, line domain.OrderLine) (int64, error) {
	query := `INSERT INTO OrderLines (orderId, menuItemId, variantId, quantity, specialRequests) VALUES (?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, line.OrderID.String(), line.MenuItemID, line.VariantID, line.Quantity, line.SpecialRequests)
	if err != nil {
		return 0, fmt.Errorf("inserting order line: %w", err)
	}

	lineID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	if len(line.ModifierIDs) == 0 {
		return lineID, nil
	}

	placeholders := make([]string, len(line.ModifierIDs))
	args := make([]any, 0, len(line.ModifierIDs)*2)
	for i, modifierID := range line.ModifierIDs {
		placeholders[i] = "(?, ?)"
		args = append(args, lineID, modifierID)
	}
	modQuery := fmt.Sprintf(`INSERT INTO OrderLineModifiers (orderLineId, modifierId) VALUES %s`, strings.Join(placeholders, ", "))
	if _, err := tx.ExecContext(ctx, modQuery, args...); err != nil {
		return 0, fmt.Errorf("inserting order line modifiers: %w", err)
	}

	return lineID, nil
}

func (r *MySQLOrderLineRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	byOrder, err := r.FindByOrderIDs(ctx, []uuid.UUID{orderID})
	if err != nil {
		return nil, err
	}
	lines := byOrder[orderID]
	if lines == nil {
		lines = []domain.OrderLine{}
	}
	return lines, nil
}

// FindByOrderIDs loads the lines of several orders, resolved with the current item name and variant
// label and price, grouped by order in insertion order.
func (r *MySQLOrderLineRepository) FindByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderLine, error) {
	out := make(map[uuid.UUID][]domain.OrderLine, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args[i] = id.String()
	}
	in := strings.Join(placeholders, ", ")

	query := fmt.Sprintf(`
		SELECT l.id, l.orderId, l.menuItemId, l.variantId, l.quantity, COALESCE(l.specialRequests, ''),
		       i.name, v.label, v.price
		FROM OrderLines l
		JOIN MenuItems i ON i.id = l.menuItemId
		JOIN MenuItemVariants v ON v.id = l.variantId
		WHERE l.orderId IN (%s)
		ORDER BY l.id`, in)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order lines: %w", err)
	}
	defer rows.Close()

	index := make(map[int64]*domain.OrderLine)
	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		err := rows.Scan(
			&l.ID, &l.OrderID, &l.MenuItemID, &l.VariantID, &l.Quantity, &l.SpecialRequests,
			&l.Name, &l.VariantLabel, &l.VariantPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order line row: %w", err)
		}
		l.ModifierIDs = []int{}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order line rows: %w", err)
	}
	if len(lines) == 0 {
		return out, nil
	}
	for i := range lines {
		index[lines[i].ID] = &lines[i]
	}

	modQuery := fmt.Sprintf(`
		SELECT lm.orderLineId, lm.modifierId
		FROM OrderLineModifiers lm
		JOIN OrderLines l ON l.id = lm.orderLineId
		WHERE l.orderId IN (%s)
		ORDER BY lm.orderLineId, lm.modifierId`, in)

	modRows, err := r.db.QueryContext(ctx, modQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order line modifiers: %w", err)
	}
	defer modRows.Close()

	for modRows.Next() {
		var lineID int64
		var modifierID int
		if err := modRows.Scan(&lineID, &modifierID); err != nil {
			return nil, fmt.Errorf("scanning order line modifier row: %w", err)
		}
		if l, ok := index[lineID]; ok {
			l.ModifierIDs = append(l.ModifierIDs, modifierID)
		}
	}
	if err := modRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order line modifier rows: %w", err)
	}

	for _, l := range lines {
		out[l.OrderID] = append(out[l.OrderID], l)
	}
	return out, nil
}
