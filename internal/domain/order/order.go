// Package order implements checkout, order history, and the purchased-game
// library view.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrEmptyCart is returned by Checkout when the user's cart holds no items.
var ErrEmptyCart = errors.New("cart is empty")

// Order is a completed purchase.
type Order struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Total     decimal.Decimal
	CreatedAt time.Time
	Items     []Item
}

// Item is a single purchased game within an order.
type Item struct {
	GameID int64
	Name   string
	Price  decimal.Decimal
	Image  *string
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order with its items and clears the user's cart
	// in one transaction.
	Create(ctx context.Context, o *Order) error
	// ListByUser returns the user's orders newest first, items included.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
}
