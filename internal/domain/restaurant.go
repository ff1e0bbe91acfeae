package domain

import (
	"time"

	"github.com/google/uuid"
)

type Restaurant struct {
	ID        int
	Slug      string
	Name      string
	OwnerID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KitchenTopic is the broadcast channel kitchen displays of this restaurant listen on.
func (r Restaurant) KitchenTopic() string {
	return KitchenTopic(r.Slug)
}

func KitchenTopic(slug string) string {
	return "kitchen_" + slug
}
