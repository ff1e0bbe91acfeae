package dto

import (
	"time"

	"comandero/internal/domain"
)

// OrderResponse is returned by the status query and the kitchen endpoints, and is also the
// payload published to kitchen displays.
type OrderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	TableIdentifier *string             `json:"table_identifier"`
	TotalPrice      string              `json:"total_price"`
	CreatedAt       time.Time           `json:"created_at"`
	Items           []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	VariantLabel    string `json:"variant_label"`
	VariantPrice    string `json:"variant_price"`
	Quantity        int    `json:"quantity"`
	SpecialRequests string `json:"special_requests"`
}

func NewOrderResponse(order domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, OrderItemResponse{
			ID:              line.ID,
			Name:            line.Name,
			VariantLabel:    line.VariantLabel,
			VariantPrice:    Money(line.VariantPrice),
			Quantity:        line.Quantity,
			SpecialRequests: line.SpecialRequests,
		})
	}

	return OrderResponse{
		ID:              order.ID.String(),
		Status:          string(order.Status),
		TableIdentifier: order.TableIdentifier,
		TotalPrice:      Money(order.TotalPrice),
		CreatedAt:       order.CreatedAt.UTC(),
		Items:           items,
	}
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

func NewOrderListResponse(orders []domain.Order) OrderListResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return OrderListResponse{Orders: out}
}
