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

type MySQLRestaurantRepository struct {
	db mysql.DBTX
}

func NewMySQLRestaurantRepository(db mysql.DBTX) *MySQLRestaurantRepository {
	return &MySQLRestaurantRepository{db: db}
}

const selectRestaurant = `
	SELECT id, slug, name, ownerId, createdAt, updatedAt
	FROM Restaurants
`

func (r *MySQLRestaurantRepository) FindBySlug(ctx context.Context, slug string) (*domain.Restaurant, error) {
	restaurant, err := scanRestaurant(r.db.QueryRowContext(ctx, selectRestaurant+"WHERE slug = ?", slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant %q not found", slug))
	}
	if err != nil {
		return nil, fmt.Errorf("querying restaurant by slug: %w", err)
	}
	return restaurant, nil
}

// FindByID runs on q, so a caller holding a transaction does not need a second connection.
func (r *MySQLRestaurantRepository) FindByID(ctx context.Context, q mysql.DBTX, id int) (*domain.Restaurant, error) {
	restaurant, err := scanRestaurant(q.QueryRowContext(ctx, selectRestaurant+"WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying restaurant by id: %w", err)
	}
	return restaurant, nil
}

// IsMember reports whether userID owns the restaurant or belongs to its staff.
func (r *MySQLRestaurantRepository) IsMember(ctx context.Context, restaurantID int, userID uuid.UUID) (bool, error) {
	return r.IsMemberTx(ctx, r.db, restaurantID, userID)
}

// IsMemberTx is IsMember inside tx.
func (r *MySQLRestaurantRepository) IsMemberTx(ctx context.Context, tx mysql.DBTX, restaurantID int, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM Restaurants WHERE id = ? AND ownerId = ?)
		    OR EXISTS (SELECT 1 FROM RestaurantStaff WHERE restaurantId = ? AND userId = ?)
	`

	var member bool
	err := tx.QueryRowContext(ctx, query, restaurantID, userID.String(), restaurantID, userID.String()).Scan(&member)
	if err != nil {
		return false, fmt.Errorf("checking restaurant membership: %w", err)
	}
	return member, nil
}

func scanRestaurant(row *sql.Row) (*domain.Restaurant, error) {
	var r domain.Restaurant
	if err := row.Scan(&r.ID, &r.Slug, &r.Name, &r.OwnerID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
