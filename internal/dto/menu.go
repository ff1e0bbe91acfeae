package dto

import "comandero/internal/domain"

type PublicMenuResponse struct {
	RestaurantName string              `json:"restaurant_name"`
	Categories     []PublicCategoryDTO `json:"categories"`
}

type PublicCategoryDTO struct {
	ID    int                 `json:"id"`
	Name  string              `json:"name"`
	Items []PublicMenuItemDTO `json:"items"`
}

type PublicMenuItemDTO struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ImageURL    string             `json:"image_url"`
	Variants    []PublicVariantDTO `json:"variants"`
	Modifiers   []ModifierDTO      `json:"modifiers"`
}

type PublicVariantDTO struct {
	ID        int    `json:"id"`
	Label     string `json:"label"`
	Price     string `json:"price"`
	IsDefault bool   `json:"is_default"`
}

func NewPublicMenuResponse(snapshot *domain.MenuSnapshot) PublicMenuResponse {
	categories := make([]PublicCategoryDTO, 0, len(snapshot.Categories))
	for _, c := range snapshot.Categories {
		items := make([]PublicMenuItemDTO, 0, len(c.Items))
		for _, item := range c.Items {
			variants := make([]PublicVariantDTO, 0, len(item.Variants))
			for _, v := range item.Variants {
				variants = append(variants, PublicVariantDTO{
					ID:        v.ID,
					Label:     v.Label,
					Price:     Money(v.Price),
					IsDefault: v.IsDefault,
				})
			}
			modifiers := make([]ModifierDTO, 0, len(item.Modifiers))
			for _, m := range item.Modifiers {
				modifiers = append(modifiers, ModifierDTO{
					ID:              m.ID,
					Name:            m.Name,
					PriceAdjustment: Money(m.PriceAdjustment),
				})
			}
			items = append(items, PublicMenuItemDTO{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
				ImageURL:    item.ImageURL,
				Variants:    variants,
				Modifiers:   modifiers,
			})
		}
		categories = append(categories, PublicCategoryDTO{
			ID:    c.ID,
			Name:  c.Name,
			Items: items,
		})
	}

	return PublicMenuResponse{
		RestaurantName: snapshot.Restaurant.Name,
		Categories:     categories,
	}
}
