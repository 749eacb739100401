package handler

import (
	"net/http"
	"strconv"

	"github.com/gamehub-store/gamehub/internal/catalog"
)

// achievementsPageSize bounds the standalone achievements endpoint.
const achievementsPageSize = 100

func gameID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// detailView is the aggregated detail record enriched with the storefront
// price and the deduplicated platform keys.
type detailView struct {
	catalog.Detail
	Price     string   `json:"price"`
	Platforms []string `json:"platform_keys"`
}

func (h *Handler) GameDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := gameID(r)
	if !ok {
		writeError(ctx, w, http.StatusBadRequest, "invalid game id")
		return
	}
	detail, err := h.catalog.Detail(ctx, id)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, detailView{
		Detail:    *detail,
		Price:     catalog.PriceFor(detail.Released).StringFixed(2),
		Platforms: catalog.UniquePlatformKeys(detail.Platforms),
	})
}

func (h *Handler) GameScreenshots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := gameID(r)
	if !ok {
		writeError(ctx, w, http.StatusBadRequest, "invalid game id")
		return
	}
	shots, err := h.catalog.Screenshots(ctx, id)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, shots)
}

// GameTrailer serves the lead clip for a game. Games without one get a
// success envelope with null data, matching what the detail page expects.
func (h *Handler) GameTrailer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := gameID(r)
	if !ok {
		writeError(ctx, w, http.StatusBadRequest, "invalid game id")
		return
	}
	trailer, err := h.catalog.Trailer(ctx, id)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, trailer)
}

func (h *Handler) GameAchievements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := gameID(r)
	if !ok {
		writeError(ctx, w, http.StatusBadRequest, "invalid game id")
		return
	}
	achievements, err := h.catalog.Achievements(ctx, id, achievementsPageSize)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, achievements)
}
