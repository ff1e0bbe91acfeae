// Package pricing turns candidate order items into priced items resolved against a menu snapshot.
//
// Two entry points share one resolution algorithm:
//
//   - ValidateAndPrice is used on parser output. Items whose menu item or variant cannot be resolved
//     are dropped, so the result never has more items than the input.
//   - PriceConfirmation is used when a customer confirms an order. An unresolvable menu item or
//     variant rejects the whole request.
//
// In both paths unknown modifiers are dropped one by one and a repeated modifier counts once. Prices always come from the snapshot and
// are computed with exact decimal arithmetic.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"comandero/internal/domain"
	apperrors "comandero/internal/errors"
)

type dropReason string

const (
	dropUnknownItem    dropReason = "unknown menu item"
	dropUnknownVariant dropReason = "unknown variant"
)

type resolution struct {
	item    domain.ValidatedItem
	dropped dropReason
}

// ValidateAndPrice never fails: an order where nothing resolved is returned empty.
func ValidateAndPrice(snapshot *domain.MenuSnapshot, candidate domain.CandidateOrder) domain.ValidatedOrder {
	out := domain.ValidatedOrder{
		Items:      make([]domain.ValidatedItem, 0, len(candidate.Items)),
		TotalPrice: decimal.Zero,
		Language:   languageOrDefault(candidate.Language),
	}

	for _, c := range candidate.Items {
		r := resolve(snapshot, c)
		if r.dropped != "" {
			continue
		}
		out.Items = append(out.Items, r.item)
		out.TotalPrice = out.TotalPrice.Add(r.item.LineTotal)
	}

	return out
}

func PriceConfirmation(snapshot *domain.MenuSnapshot, items []domain.CandidateItem, language string) (domain.ValidatedOrder, error) {
	out := domain.ValidatedOrder{
		Items:      make([]domain.ValidatedItem, 0, len(items)),
		TotalPrice: decimal.Zero,
		Language:   languageOrDefault(language),
	}

	var details []apperrors.ValidationDetail
	for idx, c := range items {
		r := resolve(snapshot, c)
		switch r.dropped {
		case dropUnknownItem:
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].menu_item_id", idx),
				Message: fmt.Sprintf("menu item %d is not available at this restaurant", c.MenuItemID),
			})
			continue
		case dropUnknownVariant:
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].variant_id", idx),
				Message: fmt.Sprintf("variant %d does not belong to menu item %d", c.VariantID, c.MenuItemID),
			})
			continue
		}
		out.Items = append(out.Items, r.item)
		out.TotalPrice = out.TotalPrice.Add(r.item.LineTotal)
	}

	if len(details) > 0 {
		return domain.ValidatedOrder{}, apperrors.NewValidationError("invalid menu item or variant", details...)
	}

	return out, nil
}

// LineTotal is (variant price + sum of modifier adjustments) x quantity.
func LineTotal(variantPrice decimal.Decimal, modifiers []domain.Modifier, quantity int) decimal.Decimal {
	unit := variantPrice
	for _, m := range modifiers {
		unit = unit.Add(m.PriceAdjustment)
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

func resolve(snapshot *domain.MenuSnapshot, c domain.CandidateItem) resolution {
	item, ok := snapshot.Item(c.MenuItemID)
	if !ok {
		return resolution{dropped: dropUnknownItem}
	}
	variant, ok := snapshot.Variant(item.ID, c.VariantID)
	if !ok {
		return resolution{dropped: dropUnknownVariant}
	}

	modifiers := make([]domain.Modifier, 0, len(c.ModifierIDs))
	seen := make(map[int]bool, len(c.ModifierIDs))
	for _, id := range c.ModifierIDs {
		if seen[id] {
			continue
		}
		if m, ok := snapshot.Modifier(item.ID, id); ok {
			seen[id] = true
			modifiers = append(modifiers, *m)
		}
	}

	return resolution{item: domain.ValidatedItem{
		MenuItemID:      item.ID,
		Name:            item.Name,
		Variant:         *variant,
		Quantity:        c.Quantity,
		Modifiers:       modifiers,
		SpecialRequests: c.SpecialRequests,
		LineTotal:       LineTotal(variant.Price, modifiers, c.Quantity),
	}}
}

func languageOrDefault(language string) string {
	if language == "" {
		return domain.DefaultLanguage
	}
	return language
}
