package dto

import "comandero/internal/domain"

type ConfirmOrderRequest struct {
	Items           []ConfirmOrderItem `json:"items"`
	RawInput        string             `json:"raw_input"`
	TableIdentifier string             `json:"table_identifier"`
	Language        string             `json:"language"`
}

type ConfirmOrderItem struct {
	MenuItemID      int    `json:"menu_item_id"`
	VariantID       int    `json:"variant_id"`
	Quantity        int    `json:"quantity"`
	ModifierIDs     []int  `json:"modifier_ids"`
	SpecialRequests string `json:"special_requests"`
}

func (r ConfirmOrderRequest) CandidateItems() []domain.CandidateItem {
	items := make([]domain.CandidateItem, len(r.Items))
	for i, item := range r.Items {
		modifierIDs := item.ModifierIDs
		if modifierIDs == nil {
			modifierIDs = []int{}
		}
		items[i] = domain.CandidateItem{
			MenuItemID:      item.MenuItemID,
			VariantID:       item.VariantID,
			Quantity:        item.Quantity,
			ModifierIDs:     modifierIDs,
			SpecialRequests: item.SpecialRequests,
		}
	}
	return items
}

type TransitionRequest struct {
	Status string `json:"status"`
}
