package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamehub-store/gamehub/internal/domain/cart"
)

const (
	listCartSQL = `SELECT game_id, name, price, image, added_at
	FROM cart_items WHERE user_id = $1 ORDER BY added_at`
	addCartItemSQL = `INSERT INTO cart_items (user_id, game_id, name, price, image)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, game_id) DO NOTHING`
	removeCartItemSQL = `DELETE FROM cart_items WHERE user_id = $1 AND game_id = $2`
	clearCartSQL      = `DELETE FROM cart_items WHERE user_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// List returns the user's cart items in the order they were added.
func (r *CartRepository) List(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	rows, err := r.pool.Query(ctx, listCartSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}
	defer rows.Close()

	var items []cart.Item
	for rows.Next() {
		var item cart.Item
		if err := rows.Scan(&item.GameID, &item.Name, &item.Price, &item.Image, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cart items: %w", err)
	}
	return items, nil
}

// Add inserts an item into the user's cart. Re-adding a game already in the
// cart is a no-op.
func (r *CartRepository) Add(ctx context.Context, userID uuid.UUID, item cart.Item) error {
	_, err := r.pool.Exec(ctx, addCartItemSQL,
		userID, item.GameID, item.Name, item.Price, item.Image,
	)
	if err != nil {
		return fmt.Errorf("adding cart item %d: %w", item.GameID, err)
	}
	return nil
}

// Remove deletes one game from the user's cart.
func (r *CartRepository) Remove(ctx context.Context, userID uuid.UUID, gameID int64) error {
	_, err := r.pool.Exec(ctx, removeCartItemSQL, userID, gameID)
	if err != nil {
		return fmt.Errorf("removing cart item %d: %w", gameID, err)
	}
	return nil
}

// Clear deletes all items from the user's cart.
func (r *CartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, clearCartSQL, userID)
	if err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
