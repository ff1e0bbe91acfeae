package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"comandero/internal/domain"
)

type mockMenuRepository struct {
	FindActiveMenuFunc func(ctx context.Context, restaurantID int) ([]domain.Category, error)
}

func (m *mockMenuRepository) FindActiveMenu(ctx context.Context, restaurantID int) ([]domain.Category, error) {
	return m.FindActiveMenuFunc(ctx, restaurantID)
}

func sampleCategories() []domain.Category {
	return []domain.Category{
		{
			ID: 10, Name: "Pizza", State: domain.Active,
			Items: []domain.MenuItem{
				{
					ID: 100, CategoryID: 10, Name: "Margherita", Description: "Tomato, mozzarella, basil", State: domain.Active,
					Variants: []domain.Variant{
						{ID: 1000, MenuItemID: 100, Label: "Regular", Price: decimal.RequireFromString("12.99"), IsDefault: true},
						{ID: 1001, MenuItemID: 100, Label: "Family", Price: decimal.RequireFromString("21.5")},
					},
					Modifiers: []domain.Modifier{
						{ID: 5000, MenuItemID: 100, Name: "Extra cheese", PriceAdjustment: decimal.RequireFromString("2.00")},
						{ID: 5001, MenuItemID: 100, Name: "No basil", PriceAdjustment: decimal.Zero},
					},
				},
			},
		},
		{
			ID: 11, Name: "Drinks", State: domain.Active,
			Items: []domain.MenuItem{
				{
					ID: 200, CategoryID: 11, Name: "Lemonade", State: domain.Active,
					Variants: []domain.Variant{
						{ID: 2000, MenuItemID: 200, Label: "Glass", Price: decimal.RequireFromString("3")},
					},
				},
			},
		},
	}
}

func TestSnapshot_Success(t *testing.T) {
	repo := &mockMenuRepository{
		FindActiveMenuFunc: func(ctx context.Context, restaurantID int) ([]domain.Category, error) {
			assert.Equal(t, 1, restaurantID)
			return sampleCategories(), nil
		},
	}
	svc := NewMenuService(repo, zap.NewNop())

	snapshot, err := svc.Snapshot(context.Background(), domain.Restaurant{ID: 1, Slug: "trattoria", Name: "Trattoria"})

	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.ItemCount())
	item, ok := snapshot.Item(200)
	require.True(t, ok)
	assert.Equal(t, "Lemonade", item.Name)
}

func TestSnapshot_RepositoryError(t *testing.T) {
	repo := &mockMenuRepository{
		FindActiveMenuFunc: func(ctx context.Context, restaurantID int) ([]domain.Category, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewMenuService(repo, zap.NewNop())

	snapshot, err := svc.Snapshot(context.Background(), domain.Restaurant{ID: 1})

	assert.Nil(t, snapshot)
	assert.ErrorContains(t, err, "db down")
}

func TestRenderContext(t *testing.T) {
	snapshot := domain.NewMenuSnapshot(domain.Restaurant{ID: 1, Name: "Trattoria"}, sampleCategories())

	expected := "Restaurant: Trattoria\n" +
		"\n" +
		"## Pizza\n" +
		"  - Margherita (item_id: 100)\n" +
		"    Description: Tomato, mozzarella, basil\n" +
		"    Sizes/Variants (pick one):\n" +
		"      * Regular: $12.99 [DEFAULT] (variant_id: 1000)\n" +
		"      * Family: $21.50 (variant_id: 1001)\n" +
		"    Modifiers (optional, pick any):\n" +
		"      * Extra cheese: +$2.00 (modifier_id: 5000)\n" +
		"      * No basil: free (modifier_id: 5001)\n" +
		"\n" +
		"## Drinks\n" +
		"  - Lemonade (item_id: 200)\n" +
		"    Sizes/Variants (pick one):\n" +
		"      * Glass: $3.00 (variant_id: 2000)\n"

	assert.Equal(t, expected, RenderContext(snapshot))
}

func TestRenderContext_IsDeterministic(t *testing.T) {
	repo := &mockMenuRepository{
		FindActiveMenuFunc: func(ctx context.Context, restaurantID int) ([]domain.Category, error) {
			return sampleCategories(), nil
		},
	}
	svc := NewMenuService(repo, zap.NewNop())
	restaurant := domain.Restaurant{ID: 1, Name: "Trattoria"}

	first, err := svc.Snapshot(context.Background(), restaurant)
	require.NoError(t, err)
	want := RenderContext(first)

	for i := 0; i < 20; i++ {
		again, err := svc.Snapshot(context.Background(), restaurant)
		require.NoError(t, err)
		assert.NotSame(t, first, again)
		assert.Equal(t, want, RenderContext(again))
	}
}

func TestRenderContext_EmptyMenu(t *testing.T) {
	snapshot := domain.NewMenuSnapshot(domain.Restaurant{ID: 1, Name: "Empty"}, []domain.Category{})

	assert.Equal(t, "Restaurant: Empty\n", RenderContext(snapshot))
}
