package repository

import (
	"context"
	"fmt"

	"comandero/internal/domain"
	"comandero/internal/infrastructure/mysql"
)

type MySQLMenuRepository struct {
	db mysql.DBTX
}

func NewMySQLMenuRepository(db mysql.DBTX) *MySQLMenuRepository {
	return &MySQLMenuRepository{db: db}
}

// FindActiveMenu loads the active categories of a restaurant with their active items. Items of an
// inactive category are left out even when the item itself is active.
func (r *MySQLMenuRepository) FindActiveMenu(ctx context.Context, restaurantID int) ([]domain.Category, error) {
	categories, err := r.findCategories(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return []domain.Category{}, nil
	}

	items, err := r.findItems(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	variants, err := r.findVariants(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	modifiers, err := r.findModifiers(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int]int, len(categories))
	for i := range categories {
		byCategory[categories[i].ID] = i
	}
	for _, item := range items {
		item.Variants = variants[item.ID]
		if item.Variants == nil {
			item.Variants = []domain.Variant{}
		}
		item.Modifiers = modifiers[item.ID]
		if item.Modifiers == nil {
			item.Modifiers = []domain.Modifier{}
		}
		if idx, ok := byCategory[item.CategoryID]; ok {
			categories[idx].Items = append(categories[idx].Items, item)
		}
	}

	return categories, nil
}

func (r *MySQLMenuRepository) findCategories(ctx context.Context, restaurantID int) ([]domain.Category, error) {
	query := `
		SELECT id, name, sortOrder
		FROM MenuCategories
		WHERE restaurantId = ?
		  AND isActive = 1
		ORDER BY sortOrder, id`

	rows, err := r.db.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("querying menu categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c := domain.Category{State: domain.Active, Items: []domain.MenuItem{}}
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning menu category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu category rows: %w", err)
	}

	return categories, nil
}

func (r *MySQLMenuRepository) findItems(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	query := `
		SELECT i.id, i.categoryId, i.name, COALESCE(i.description, ''), COALESCE(i.imageUrl, ''), i.sortOrder
		FROM MenuItems i
		JOIN MenuCategories c ON c.id = i.categoryId
		WHERE c.restaurantId = ?
		  AND c.isActive = 1
		  AND i.isActive = 1
		ORDER BY i.sortOrder, i.id`

	rows, err := r.db.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("querying menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item := domain.MenuItem{State: domain.Active}
		if err := rows.Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.ImageURL, &item.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning menu item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLMenuRepository) findVariants(ctx context.Context, restaurantID int) (map[int][]domain.Variant, error) {
	query := `
		SELECT v.id, v.menuItemId, v.label, v.price, v.isDefault
		FROM MenuItemVariants v
		JOIN MenuItems i ON i.id = v.menuItemId
		JOIN MenuCategories c ON c.id = i.categoryId
		WHERE c.restaurantId = ?
		ORDER BY v.id`

	rows, err := r.db.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("querying menu item variants: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]domain.Variant)
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.MenuItemID, &v.Label, &v.Price, &v.IsDefault); err != nil {
			return nil, fmt.Errorf("scanning menu item variant row: %w", err)
		}
		out[v.MenuItemID] = append(out[v.MenuItemID], v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu item variant rows: %w", err)
	}

	return out, nil
}

func (r *MySQLMenuRepository) findModifiers(ctx context.Context, restaurantID int) (map[int][]domain.Modifier, error) {
	query := `
		SELECT m.id, m.menuItemId, m.name, m.priceAdjustment
		FROM MenuItemModifiers m
		JOIN MenuItems i ON i.id = m.menuItemId
		JOIN MenuCategories c ON c.id = i.categoryId
		WHERE c.restaurantId = ?
		ORDER BY m.id`

	rows, err := r.db.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("querying menu item modifiers: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]domain.Modifier)
	for rows.Next() {
		var m domain.Modifier
		if err := rows.Scan(&m.ID, &m.MenuItemID, &m.Name, &m.PriceAdjustment); err != nil {
			return nil, fmt.Errorf("scanning menu item modifier row: %w", err)
		}
		out[m.MenuItemID] = append(out[m.MenuItemID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu item modifier rows: %w", err)
	}

	return out, nil
}
