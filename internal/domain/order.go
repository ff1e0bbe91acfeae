package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
)

// Kitchen fulfillment only moves forward one step at a time. pending has no outgoing edge because
// no creation path in this service produces it.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {},
	OrderStatusConfirmed: {OrderStatusPreparing},
	OrderStatusPreparing: {OrderStatusReady},
	OrderStatusReady:     {OrderStatusCompleted},
	OrderStatusCompleted: {},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := orderTransitions[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

func (s OrderStatus) AllowedNext() []OrderStatus {
	next := orderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted
}

func StatusStrings(statuses []OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

type Order struct {
	ID              uuid.UUID
	RestaurantID    int
	TableIdentifier *string
	Status          OrderStatus
	RawInput        string
	ParsedJSON      []byte
	Language        string
	TotalPrice      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Lines           []OrderLine
}

// OrderLine references menu entities without owning them; the database refuses to delete a
// referenced item, variant or modifier.
type OrderLine struct {
	ID              int64
	OrderID         uuid.UUID
	MenuItemID      int
	VariantID       int
	Quantity        int
	SpecialRequests string
	ModifierIDs     []int

	Name         string
	VariantLabel string
	VariantPrice decimal.Decimal
}
