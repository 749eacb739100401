// Package handler exposes the storefront over HTTP: catalog browsing, game
// detail, accounts, cart, and orders.
package handler

import (
	"net/http"

	"github.com/gamehub-store/gamehub/internal/catalog"
	"github.com/gamehub-store/gamehub/internal/domain/auth"
	"github.com/gamehub-store/gamehub/internal/domain/cart"
	"github.com/gamehub-store/gamehub/internal/domain/order"
)

// Handler implements the API surface, delegating to the catalog gateway and
// the domain services.
type Handler struct {
	catalog *catalog.Gateway
	auth    *auth.Service
	carts   cart.Repository
	orders  *order.Service
}

// New constructs a Handler with the required dependencies.
func New(
	gw *catalog.Gateway,
	authSvc *auth.Service,
	carts cart.Repository,
	orders *order.Service,
) *Handler {
	return &Handler{
		catalog: gw,
		auth:    authSvc,
		carts:   carts,
		orders:  orders,
	}
}

// Routes returns the mux with every API route registered. All paths are
// rooted under /api; health endpoints are registered by the caller.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/catalog/carousel", h.Carousel)
	mux.HandleFunc("GET /api/catalog/platforms/{platform}", h.ByPlatform)
	mux.HandleFunc("GET /api/catalog/{category}", h.ByCategory)
	mux.HandleFunc("GET /api/search", h.Search)
	mux.HandleFunc("GET /api/games/{id}", h.GameDetail)
	mux.HandleFunc("GET /api/games/{id}/screenshots", h.GameScreenshots)
	mux.HandleFunc("GET /api/games/{id}/achievements", h.GameAchievements)
	mux.HandleFunc("GET /api/games/{id}/trailer", h.GameTrailer)

	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)

	mux.HandleFunc("GET /api/cart", h.requireUser(h.ListCart))
	mux.HandleFunc("POST /api/cart", h.requireUser(h.AddToCart))
	mux.HandleFunc("DELETE /api/cart", h.requireUser(h.ClearCart))
	mux.HandleFunc("DELETE /api/cart/{gameID}", h.requireUser(h.RemoveFromCart))

	mux.HandleFunc("POST /api/orders", h.requireUser(h.Checkout))
	mux.HandleFunc("GET /api/orders", h.requireUser(h.OrderHistory))
	mux.HandleFunc("GET /api/library", h.requireUser(h.Library))

	return mux
}
