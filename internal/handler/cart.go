package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/gamehub-store/gamehub/internal/catalog"
	"github.com/gamehub-store/gamehub/internal/domain/cart"
	"github.com/gamehub-store/gamehub/internal/domain/user"
)

type addToCartRequest struct {
	GameID   int64   `json:"game_id"`
	Name     string  `json:"name"`
	Released string  `json:"released"`
	Image    *string `json:"image"`
}

type cartItemView struct {
	GameID int64   `json:"game_id"`
	Name   string  `json:"name"`
	Price  string  `json:"price"`
	Image  *string `json:"image"`
}

type cartView struct {
	Items []cartItemView `json:"items"`
	Total string         `json:"total"`
}

func cartViewOf(items []cart.Item) cartView {
	view := cartView{Items: make([]cartItemView, 0, len(items))}
	total := decimal.Zero
	for _, it := range items {
		view.Items = append(view.Items, cartItemView{
			GameID: it.GameID,
			Name:   it.Name,
			Price:  it.Price.StringFixed(2),
			Image:  it.Image,
		})
		total = total.Add(it.Price)
	}
	view.Total = total.StringFixed(2)
	return view
}

func (h *Handler) ListCart(w http.ResponseWriter, r *http.Request, u *user.User) {
	ctx := r.Context()
	items, err := h.carts.List(ctx, u.ID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, cartViewOf(items))
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, u *user.User) {
	ctx := r.Context()
	var req addToCartRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GameID <= 0 || req.Name == "" {
		writeError(ctx, w, http.StatusBadRequest, "game_id and name are required")
		return
	}
	item := cart.Item{
		GameID: req.GameID,
		Name:   req.Name,
		Price:  catalog.PriceFor(req.Released),
		Image:  req.Image,
	}
	if err := h.carts.Add(ctx, u.ID, item); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	items, err := h.carts.List(ctx, u.ID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeData(w, http.StatusCreated, cartViewOf(items))
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, u *user.User) {
	ctx := r.Context()
	id, err := strconv.ParseInt(r.PathValue("gameID"), 10, 64)
	if err != nil || id <= 0 {
		writeError(ctx, w, http.StatusBadRequest, "invalid game id")
		return
	}
	if err := h.carts.Remove(ctx, u.ID, id); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"removed": true})
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, u *user.User) {
	ctx := r.Context()
	if err := h.carts.Clear(ctx, u.ID); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"cleared": true})
}
