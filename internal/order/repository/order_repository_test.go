package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comandero/internal/domain"
	apperrors "comandero/internal/errors"
	"comandero/internal/testutil"
)

var orderColumns = []string{
	"id", "restaurantId", "tableIdentifier", "status", "rawInput", "parsedJson", "language",
	"totalPrice", "createdAt", "updatedAt",
}

// Unit Tests

func TestOrderRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	table := "12"
	order := domain.Order{
		ID:              uuid.New(),
		RestaurantID:    7,
		TableIdentifier: &table,
		Status:          domain.OrderStatusConfirmed,
		RawInput:        "one margherita",
		ParsedJSON:      []byte(`{"items":[]}`),
		Language:        "en",
		TotalPrice:      decimal.RequireFromString("14.99"),
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO Orders").
		WithArgs(order.ID.String(), 7, "12", "confirmed", "one margherita", `{"items":[]}`, "en",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMySQLOrderRepository(db)
	err = repo.Insert(context.Background(), db, order)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_InsertNullTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	order := domain.Order{ID: uuid.New(), RestaurantID: 7, Status: domain.OrderStatusConfirmed, Language: "en"}

	mock.ExpectExec("INSERT INTO Orders").
		WithArgs(order.ID.String(), 7, nil, "confirmed", "", nil, "en",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMySQLOrderRepository(db)
	require.NoError(t, repo.Insert(context.Background(), db, order))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_FindByIDForUpdate_Locks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? FOR UPDATE")).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(id.String(), 7, nil, "preparing", "two lemonades", nil, "en", "6.00", now, now))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	repo := NewMySQLOrderRepository(db)
	order, err := repo.FindByIDForUpdate(context.Background(), tx, id)

	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
	assert.Equal(t, domain.OrderStatusPreparing, order.Status)
	assert.Nil(t, order.TableIdentifier)
	assert.Nil(t, order.ParsedJSON)
	assert.Equal(t, "6.00", order.TotalPrice.StringFixed(2))
}

func TestOrderRepository_FindByIDAndRestaurant_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? AND restaurantId = ?")).
		WithArgs(id.String(), 9).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	repo := NewMySQLOrderRepository(db)
	order, err := repo.FindByIDAndRestaurant(context.Background(), id, 9)

	assert.Nil(t, order)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_UpdateStatus_CompareAndSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE Orders SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ? AND status = ?")).
		WithArgs("ready", id.String(), "preparing").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE Orders").
		WithArgs("ready", id.String(), "preparing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewMySQLOrderRepository(db)

	updated, err := repo.UpdateStatus(context.Background(), db, id, domain.OrderStatusPreparing, domain.OrderStatusReady)
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = repo.UpdateStatus(context.Background(), db, id, domain.OrderStatusPreparing, domain.OrderStatusReady)
	require.NoError(t, err)
	assert.False(t, updated)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE Orders").WillReturnError(errors.New("lock wait timeout"))

	repo := NewMySQLOrderRepository(db)
	_, err = repo.UpdateStatus(context.Background(), db, uuid.New(), domain.OrderStatusConfirmed, domain.OrderStatusPreparing)

	assert.ErrorContains(t, err, "updating order status")
}

func TestOrderRepository_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	a, b := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE restaurantId = ? AND status <> ? ORDER BY createdAt DESC")).
		WithArgs(7, "completed").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(a.String(), 7, "4", "ready", "x", nil, "en", "10.00", now, now).
			AddRow(b.String(), 7, nil, "confirmed", "y", nil, "es", "3.50", now.Add(-time.Minute), now))

	repo := NewMySQLOrderRepository(db)
	orders, err := repo.ListActive(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, a, orders[0].ID)
	assert.Equal(t, "4", *orders[0].TableIdentifier)
	assert.Equal(t, domain.OrderStatusConfirmed, orders[1].Status)
}

// Integration Tests

func TestOrderRepository_Integration_CreateAndTransition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	restaurantID := testutil.SeedRestaurant(t, db, "trattoria", "Trattoria", uuid.NewString())
	ctx := context.Background()
	repo := NewMySQLOrderRepository(db)

	order := domain.Order{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Status:       domain.OrderStatusConfirmed,
		RawInput:     "one margherita",
		ParsedJSON:   []byte(`{"items":[]}`),
		Language:     "en",
		TotalPrice:   decimal.RequireFromString("14.99"),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
		UpdatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Insert(ctx, db, order))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	locked, err := repo.FindByIDForUpdate(ctx, tx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, locked.Status)

	updated, err := repo.UpdateStatus(ctx, tx, order.ID, domain.OrderStatusConfirmed, domain.OrderStatusPreparing)
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = repo.UpdateStatus(ctx, tx, order.ID, domain.OrderStatusConfirmed, domain.OrderStatusPreparing)
	require.NoError(t, err)
	assert.False(t, updated)
	require.NoError(t, tx.Commit())

	found, err := repo.FindByIDAndRestaurant(ctx, order.ID, restaurantID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPreparing, found.Status)
	assert.True(t, order.TotalPrice.Equal(found.TotalPrice))

	_, err = repo.FindByIDAndRestaurant(ctx, order.ID, restaurantID+1)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
