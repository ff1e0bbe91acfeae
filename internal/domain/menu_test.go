package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testSnapshot() *MenuSnapshot {
	return NewMenuSnapshot(Restaurant{ID: 1, Slug: "trattoria", Name: "Trattoria"}, []Category{
		{
			ID: 10, Name: "Pizza", State: Active,
			Items: []MenuItem{
				{
					ID: 100, CategoryID: 10, Name: "Margherita", State: Active,
					Variants: []Variant{
						{ID: 1000, MenuItemID: 100, Label: "Small", Price: decimal.RequireFromString("9.50"), IsDefault: true},
						{ID: 1001, MenuItemID: 100, Label: "Large", Price: decimal.RequireFromString("12.99")},
					},
					Modifiers: []Modifier{
						{ID: 5000, MenuItemID: 100, Name: "Extra cheese", PriceAdjustment: decimal.RequireFromString("2.00")},
					},
				},
				{
					ID: 101, CategoryID: 10, Name: "Marinara", State: Active,
					Variants: []Variant{
						{ID: 1002, MenuItemID: 101, Label: "Regular", Price: decimal.RequireFromString("8.00"), IsDefault: true},
					},
				},
			},
		},
	})
}

func TestMenuSnapshot_ItemLookup(t *testing.T) {
	s := testSnapshot()

	item, ok := s.Item(100)
	assert.True(t, ok)
	assert.Equal(t, "Margherita", item.Name)

	_, ok = s.Item(999)
	assert.False(t, ok)
	assert.Equal(t, 2, s.ItemCount())
}

func TestMenuSnapshot_VariantBelongsToItem(t *testing.T) {
	s := testSnapshot()

	v, ok := s.Variant(100, 1001)
	assert.True(t, ok)
	assert.Equal(t, "Large", v.Label)

	// variant of another item
	_, ok = s.Variant(100, 1002)
	assert.False(t, ok)

	_, ok = s.Variant(999, 1000)
	assert.False(t, ok)
}

func TestMenuSnapshot_ModifierBelongsToItem(t *testing.T) {
	s := testSnapshot()

	m, ok := s.Modifier(100, 5000)
	assert.True(t, ok)
	assert.Equal(t, "Extra cheese", m.Name)

	_, ok = s.Modifier(101, 5000)
	assert.False(t, ok)
}

func TestActiveStateFromBool(t *testing.T) {
	assert.Equal(t, Active, ActiveStateFromBool(true))
	assert.Equal(t, Inactive, ActiveStateFromBool(false))
	assert.True(t, Active.IsActive())
	assert.False(t, Inactive.IsActive())
}

func TestValidatedItem_ModifierIDs(t *testing.T) {
	item := ValidatedItem{Modifiers: []Modifier{{ID: 3}, {ID: 7}}}

	assert.Equal(t, []int{3, 7}, item.ModifierIDs())
	assert.Equal(t, []int{}, ValidatedItem{}.ModifierIDs())
}
