// Package cart defines the per-user shopping cart.
package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one game held in a cart. Name, price, and image are captured at
// add time so the cart stays stable if the catalog entry changes upstream.
type Item struct {
	GameID  int64
	Name    string
	Price   decimal.Decimal
	Image   *string
	AddedAt time.Time
}

// Repository defines persistence operations for cart items. Adding an item
// that is already in the cart is a no-op: a game can be purchased once.
type Repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Item, error)
	Add(ctx context.Context, userID uuid.UUID, item Item) error
	Remove(ctx context.Context, userID uuid.UUID, gameID int64) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
