package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gamehub-store/gamehub/internal/domain/order"
	"github.com/gamehub-store/gamehub/internal/domain/user"
)

type orderItemView struct {
	GameID int64   `json:"game_id"`
	Name   string  `json:"name"`
	Price  string  `json:"price"`
	Image  *string `json:"image"`
}

type orderView struct {
	ID        uuid.UUID       `json:"id"`
	Total     string          `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []orderItemView `json:"items"`
}

func orderViewOf(o order.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemView{
			GameID: it.GameID,
			Name:   it.Name,
			Price:  it.Price.StringFixed(2),
			Image:  it.Image,
		})
	}
	return orderView{
		ID:        o.ID,
		Total:     o.Total.StringFixed(2),
		CreatedAt: o.CreatedAt,
		Items:     items,
	}
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request, u *user.User) {
	ctx := r.Context()
	o, err := h.orders.Checkout(ctx, u.ID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeData(w, http.StatusCreated, orderViewOf(*o))
}

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request, u *user.User) {
	ctx := r.Context()
	orders, err := h.orders.History(ctx, u.ID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderViewOf(o))
	}
	writeData(w, http.StatusOK, views)
}

type libraryEntryView struct {
	GameID      int64     `json:"game_id"`
	Name        string    `json:"name"`
	Image       *string   `json:"image"`
	PurchasedAt time.Time `json:"purchased_at"`
}

func (h *Handler) Library(w http.ResponseWriter, r *http.Request, u *user.User) {
	ctx := r.Context()
	entries, err := h.orders.Library(ctx, u.ID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	views := make([]libraryEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, libraryEntryView{
			GameID:      e.GameID,
			Name:        e.Name,
			Image:       e.Image,
			PurchasedAt: e.PurchasedAt,
		})
	}
	writeData(w, http.StatusOK, views)
}
