package domain

import "github.com/shopspring/decimal"

const DefaultLanguage = "en"

// CandidateOrder is the untrusted interpretation of a customer's free text. Any id in it may be
// wrong or belong to another restaurant.
type CandidateOrder struct {
	Items    []CandidateItem
	Language string
}

type CandidateItem struct {
	MenuItemID      int
	VariantID       int
	Quantity        int
	ModifierIDs     []int
	SpecialRequests string
}

type ValidatedOrder struct {
	Items      []ValidatedItem
	TotalPrice decimal.Decimal
	Language   string
}

func (o ValidatedOrder) IsEmpty() bool {
	return len(o.Items) == 0
}

type ValidatedItem struct {
	MenuItemID      int
	Name            string
	Variant         Variant
	Quantity        int
	Modifiers       []Modifier
	SpecialRequests string
	LineTotal       decimal.Decimal
}

func (i ValidatedItem) ModifierIDs() []int {
	ids := make([]int, len(i.Modifiers))
	for idx, m := range i.Modifiers {
		ids[idx] = m.ID
	}
	return ids
}
