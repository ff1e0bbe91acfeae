package service

import (
	"fmt"
	"strings"

	"comandero/internal/domain"
)

// RenderContext lists every orderable entry of the snapshot together with its id, so a language model
// can answer with ids instead of names. The same snapshot always renders to the same text.
func RenderContext(snapshot *domain.MenuSnapshot) string {
	lines := []string{"Restaurant: " + snapshot.Restaurant.Name, ""}

	for _, category := range snapshot.Categories {
		lines = append(lines, "## "+category.Name)

		for _, item := range category.Items {
			lines = append(lines, fmt.Sprintf("  - %s (item_id: %d)", item.Name, item.ID))
			if item.Description != "" {
				lines = append(lines, "    Description: "+item.Description)
			}

			if len(item.Variants) > 0 {
				lines = append(lines, "    Sizes/Variants (pick one):")
				for _, v := range item.Variants {
					marker := ""
					if v.IsDefault {
						marker = " [DEFAULT]"
					}
					lines = append(lines, fmt.Sprintf("      * %s: $%s%s (variant_id: %d)", v.Label, v.Price.StringFixed(2), marker, v.ID))
				}
			}

			if len(item.Modifiers) > 0 {
				lines = append(lines, "    Modifiers (optional, pick any):")
				for _, m := range item.Modifiers {
					price := "free"
					if !m.PriceAdjustment.IsZero() {
						price = "+$" + m.PriceAdjustment.StringFixed(2)
					}
					lines = append(lines, fmt.Sprintf("      * %s: %s (modifier_id: %d)", m.Name, price, m.ID))
				}
			}
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
