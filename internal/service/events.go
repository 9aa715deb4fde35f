package service

import (
	"context"
	"time"
)

const (
	EventCartCreated = "cart_created"
	EventItemAdded   = "item_added"
	EventItemRemoved = "item_removed"
	EventItemUpdated = "item_updated"
)

type CartEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id"`
	CartID string    `json:"cart_id"`
	At     time.Time `json:"at"`
}

// EventPublisher receives a notification after each successful cart
// mutation. Implementations must not block the request path; failures
// are theirs to log.
type EventPublisher interface {
	CartChanged(ctx context.Context, event CartEvent)
}
