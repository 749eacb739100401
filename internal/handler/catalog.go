package handler

import (
	"net/http"
	"strconv"

	"github.com/gamehub-store/gamehub/internal/catalog"
)

// gameView is a catalog entry enriched with the storefront price and the
// deduplicated platform keys.
type gameView struct {
	catalog.Entry
	Price     string   `json:"price"`
	Platforms []string `json:"platform_keys"`
}

func viewOf(e catalog.Entry) gameView {
	return gameView{
		Entry:     e,
		Price:     catalog.PriceFor(e.Released).StringFixed(2),
		Platforms: catalog.UniquePlatformKeys(e.Platforms),
	}
}

func viewsOf(entries []catalog.Entry) []gameView {
	views := make([]gameView, 0, len(entries))
	for _, e := range entries {
		views = append(views, viewOf(e))
	}
	return views
}

func pageParams(r *http.Request) (page, pageSize int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	pageSize, _ = strconv.Atoi(q.Get("page_size"))
	return page, pageSize
}

func (h *Handler) Carousel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := h.catalog.Carousel(ctx)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, viewsOf(entries))
}

func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, pageSize := pageParams(r)
	entries, err := h.catalog.ByCategory(ctx, catalog.Category(r.PathValue("category")), page, pageSize)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, viewsOf(entries))
}

func (h *Handler) ByPlatform(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, pageSize := pageParams(r)
	entries, err := h.catalog.ByPlatform(ctx, r.PathValue("platform"), page, pageSize)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, viewsOf(entries))
}

type searchView struct {
	Games []gameView `json:"games"`
	Total int        `json:"total"`
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, pageSize := pageParams(r)
	res, err := h.catalog.Search(ctx, r.URL.Query().Get("q"), page, pageSize)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, searchView{Games: viewsOf(res.Games), Total: res.Total})
}
