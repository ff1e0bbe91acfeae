package domain

import (
	"github.com/shopspring/decimal"
)

// ActiveState replaces hard deletion of menu entries. Customer-facing reads only see Active entries.
type ActiveState string

const (
	Active   ActiveState = "ACTIVE"
	Inactive ActiveState = "INACTIVE"
)

func ActiveStateFromBool(isActive bool) ActiveState {
	if isActive {
		return Active
	}
	return Inactive
}

func (s ActiveState) IsActive() bool {
	return s == Active
}

type Category struct {
	ID        int
	Name      string
	SortOrder int
	State     ActiveState
	Items     []MenuItem
}

type MenuItem struct {
	ID          int
	CategoryID  int
	Name        string
	Description string
	ImageURL    string
	SortOrder   int
	State       ActiveState
	Variants    []Variant
	Modifiers   []Modifier
}

type Variant struct {
	ID         int
	MenuItemID int
	Label      string
	Price      decimal.Decimal
	IsDefault  bool
}

type Modifier struct {
	ID              int
	MenuItemID      int
	Name            string
	PriceAdjustment decimal.Decimal
}

// MenuSnapshot is the read-only view of a restaurant's orderable menu at one point in time.
// It only holds active categories and active items.
type MenuSnapshot struct {
	Restaurant Restaurant
	Categories []Category

	items map[int]*MenuItem
}

func NewMenuSnapshot(restaurant Restaurant, categories []Category) *MenuSnapshot {
	s := &MenuSnapshot{
		Restaurant: restaurant,
		Categories: categories,
		items:      make(map[int]*MenuItem),
	}
	for ci := range s.Categories {
		for ii := range s.Categories[ci].Items {
			item := &s.Categories[ci].Items[ii]
			s.items[item.ID] = item
		}
	}
	return s
}

func (s *MenuSnapshot) Item(id int) (*MenuItem, bool) {
	item, ok := s.items[id]
	return item, ok
}

// Variant resolves variantID only among the variants of the given item.
func (s *MenuSnapshot) Variant(itemID, variantID int) (*Variant, bool) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, false
	}
	for i := range item.Variants {
		if item.Variants[i].ID == variantID {
			return &item.Variants[i], true
		}
	}
	return nil, false
}

// Modifier resolves modifierID only among the modifiers of the given item.
func (s *MenuSnapshot) Modifier(itemID, modifierID int) (*Modifier, bool) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, false
	}
	for i := range item.Modifiers {
		if item.Modifiers[i].ID == modifierID {
			return &item.Modifiers[i], true
		}
	}
	return nil, false
}

func (s *MenuSnapshot) ItemCount() int {
	return len(s.items)
}
