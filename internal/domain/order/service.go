package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamehub-store/gamehub/internal/domain/cart"
)

// LibraryEntry is one distinct purchased game with the date it was first
// bought.
type LibraryEntry struct {
	GameID      int64
	Name        string
	Image       *string
	PurchasedAt time.Time
}

// Service encapsulates checkout and library business logic.
type Service struct {
	carts  cart.Repository
	orders Repository
	now    func() time.Time
}

// NewService creates an order Service.
func NewService(carts cart.Repository, orders Repository) *Service {
	return &Service{carts: carts, orders: orders, now: time.Now}
}

// Checkout converts the user's cart into an order. The total is the sum of
// the captured item prices, rounded to two decimal places. Order creation and
// cart clearing happen in one transaction inside the repository.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID) (*Order, error) {
	items, err := s.carts.List(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart")
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	orderItems := make([]Item, len(items))
	total := decimal.Zero
	for i, item := range items {
		orderItems[i] = Item{
			GameID: item.GameID,
			Name:   item.Name,
			Price:  item.Price,
			Image:  item.Image,
		}
		total = total.Add(item.Price)
	}

	o := &Order{
		ID:        uuid.New(),
		UserID:    userID,
		Total:     total.Round(2),
		CreatedAt: s.now(),
		Items:     orderItems,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// History returns the user's orders, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Library flattens the user's order history into a deduplicated set of
// purchased games. The first (earliest) purchase of a game wins; entries are
// returned oldest purchase first.
func (s *Service) Library(ctx context.Context, userID uuid.UUID) ([]LibraryEntry, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	// ListByUser is newest first; walk backwards so the earliest purchase
	// of each game is the one we keep.
	seen := make(map[int64]struct{})
	entries := make([]LibraryEntry, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		for _, item := range o.Items {
			if _, dup := seen[item.GameID]; dup {
				continue
			}
			seen[item.GameID] = struct{}{}
			entries = append(entries, LibraryEntry{
				GameID:      item.GameID,
				Name:        item.Name,
				Image:       item.Image,
				PurchasedAt: o.CreatedAt,
			})
		}
	}
	return entries, nil
}
