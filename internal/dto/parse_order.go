package dto

import (
	"github.com/shopspring/decimal"

	"comandero/internal/domain"
)

type ParseOrderRequest struct {
	RawInput        string `json:"raw_input"`
	TableIdentifier string `json:"table_identifier"`
}

// ValidatedOrderResponse is what the customer reviews before confirming. Every amount is a decimal string.
type ValidatedOrderResponse struct {
	Items      []ValidatedItemDTO `json:"items"`
	TotalPrice string             `json:"total_price"`
	Language   string             `json:"language"`
}

type ValidatedItemDTO struct {
	MenuItemID      int           `json:"menu_item_id"`
	Name            string        `json:"name"`
	Variant         VariantDTO    `json:"variant"`
	Quantity        int           `json:"quantity"`
	Modifiers       []ModifierDTO `json:"modifiers"`
	SpecialRequests string        `json:"special_requests"`
	LineTotal       string        `json:"line_total"`
}

type VariantDTO struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Price string `json:"price"`
}

type ModifierDTO struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	PriceAdjustment string `json:"price_adjustment"`
}

func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func NewValidatedOrderResponse(order domain.ValidatedOrder) ValidatedOrderResponse {
	items := make([]ValidatedItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		modifiers := make([]ModifierDTO, 0, len(item.Modifiers))
		for _, m := range item.Modifiers {
			modifiers = append(modifiers, ModifierDTO{
				ID:              m.ID,
				Name:            m.Name,
				PriceAdjustment: Money(m.PriceAdjustment),
			})
		}
		items = append(items, ValidatedItemDTO{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Variant: VariantDTO{
				ID:    item.Variant.ID,
				Label: item.Variant.Label,
				Price: Money(item.Variant.Price),
			},
			Quantity:        item.Quantity,
			Modifiers:       modifiers,
			SpecialRequests: item.SpecialRequests,
			LineTotal:       Money(item.LineTotal),
		})
	}

	language := order.Language
	if language == "" {
		language = domain.DefaultLanguage
	}

	return ValidatedOrderResponse{
		Items:      items,
		TotalPrice: Money(order.TotalPrice),
		Language:   language,
	}
}
