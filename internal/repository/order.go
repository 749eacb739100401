package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamehub-store/gamehub/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, user_id, total, created_at)
	VALUES ($1, $2, $3, $4)`
	createOrderItemSQL = `INSERT INTO order_items (order_id, game_id, name, price, image)
	VALUES ($1, $2, $3, $4, $5)`
	clearCartForOrderSQL = `DELETE FROM cart_items WHERE user_id = $1`
	listOrdersSQL        = `SELECT id, total, created_at FROM orders
	WHERE user_id = $1 ORDER BY created_at DESC`
	listOrderItemsSQL = `SELECT oi.order_id, oi.game_id, oi.name, oi.price, oi.image
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	WHERE o.user_id = $1
	ORDER BY oi.id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order with its items and clears the user's cart, all in
// one transaction: a checkout either fully completes or leaves the cart
// untouched.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning checkout transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, createOrderSQL, o.ID, o.UserID, o.Total, o.CreatedAt); err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	for _, item := range o.Items {
		if _, err := tx.Exec(ctx, createOrderItemSQL,
			o.ID, item.GameID, item.Name, item.Price, item.Image,
		); err != nil {
			return fmt.Errorf("creating order item %d: %w", item.GameID, err)
		}
	}
	if _, err := tx.Exec(ctx, clearCartForOrderSQL, o.UserID); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing checkout: %w", err)
	}
	return nil
}

// ListByUser returns the user's orders newest first, items included.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.Total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		o.UserID = userID
		o.Items = []order.Item{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := r.pool.Query(ctx, listOrderItemsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID uuid.UUID
			item    order.Item
		)
		if err := itemRows.Scan(&orderID, &item.GameID, &item.Name, &item.Price, &item.Image); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("reading order items: %w", err)
	}

	return orders, nil
}
