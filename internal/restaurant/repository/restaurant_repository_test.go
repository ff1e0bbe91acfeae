package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "comandero/internal/errors"
	"comandero/internal/testutil"
)

var restaurantColumns = []string{"id", "slug", "name", "ownerId", "createdAt", "updatedAt"}

// Unit Tests

func TestFindBySlug_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	owner := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM Restaurants\nWHERE slug = ?")).
		WithArgs("trattoria").
		WillReturnRows(sqlmock.NewRows(restaurantColumns).AddRow(7, "trattoria", "Trattoria", owner.String(), now, now))

	repo := NewMySQLRestaurantRepository(db)
	restaurant, err := repo.FindBySlug(context.Background(), "trattoria")

	require.NoError(t, err)
	assert.Equal(t, 7, restaurant.ID)
	assert.Equal(t, "Trattoria", restaurant.Name)
	assert.Equal(t, owner, restaurant.OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBySlug_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM Restaurants").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(restaurantColumns))

	repo := NewMySQLRestaurantRepository(db)
	restaurant, err := repo.FindBySlug(context.Background(), "missing")

	assert.Nil(t, restaurant)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestFindByID_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM Restaurants").
		WithArgs(3).
		WillReturnError(errors.New("connection reset"))

	repo := NewMySQLRestaurantRepository(db)
	_, err = repo.FindByID(context.Background(), db, 3)

	require.Error(t, err)
	_, ok := apperrors.IsNotFoundError(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "querying restaurant by id")
}

func TestIsMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	user := uuid.New()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(7, user.String(), 7, user.String()).
		WillReturnRows(sqlmock.NewRows([]string{"member"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(8, user.String(), 8, user.String()).
		WillReturnRows(sqlmock.NewRows([]string{"member"}).AddRow(false))

	repo := NewMySQLRestaurantRepository(db)

	member, err := repo.IsMember(context.Background(), 7, user)
	require.NoError(t, err)
	assert.True(t, member)

	member, err = repo.IsMember(context.Background(), 8, user)
	require.NoError(t, err)
	assert.False(t, member)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMemberTx_RunsInsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	user := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(7, user.String(), 7, user.String()).
		WillReturnRows(sqlmock.NewRows([]string{"member"}).AddRow(true))
	mock.ExpectRollback()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	repo := NewMySQLRestaurantRepository(db)
	member, err := repo.IsMemberTx(ctx, tx, 7, user)

	require.NoError(t, err)
	assert.True(t, member)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Integration Tests

func TestRepository_MembershipIntegration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	owner := uuid.New()
	staff := uuid.New()
	stranger := uuid.New()
	id := testutil.SeedRestaurant(t, db, "bistro", "Bistro", owner.String())
	_, err := db.Exec(`INSERT INTO RestaurantStaff (restaurantId, userId) VALUES (?, ?)`, id, staff.String())
	require.NoError(t, err)

	repo := NewMySQLRestaurantRepository(db)
	ctx := context.Background()

	for _, tc := range []struct {
		user uuid.UUID
		want bool
	}{{owner, true}, {staff, true}, {stranger, false}} {
		got, err := repo.IsMember(ctx, id, tc.user)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	restaurant, err := repo.FindBySlug(ctx, "bistro")
	require.NoError(t, err)
	assert.Equal(t, id, restaurant.ID)
	assert.Equal(t, owner, restaurant.OwnerID)
}
