package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/gamehub-store/gamehub/internal/catalog"
	"github.com/gamehub-store/gamehub/internal/domain/auth"
	"github.com/gamehub-store/gamehub/internal/domain/order"
	"github.com/gamehub-store/gamehub/internal/domain/user"
	"github.com/gamehub-store/gamehub/internal/rawg"
)

type dataEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dataEnvelope{Success: true, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	if status >= http.StatusInternalServerError {
		zctx.From(ctx).Error("request failed", zap.Int("status", status), zap.String("error", msg))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Success: false, Error: msg})
}

// writeCatalogError maps upstream and domain errors to an HTTP status and
// writes the failure envelope.
func writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	var statusErr *rawg.StatusError
	switch {
	case errors.Is(err, rawg.ErrMissingKey):
		writeError(ctx, w, http.StatusServiceUnavailable, "catalog unavailable")
	case errors.Is(err, catalog.ErrUnknownCategory):
		writeError(ctx, w, http.StatusNotFound, "unknown category")
	case errors.As(err, &statusErr):
		if statusErr.Code == http.StatusNotFound {
			writeError(ctx, w, http.StatusNotFound, "game not found")
			return
		}
		writeError(ctx, w, http.StatusBadGateway, "upstream error")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(ctx, w, http.StatusGatewayTimeout, "upstream timeout")
	default:
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
	}
}

func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrEmailTaken):
		writeError(ctx, w, http.StatusConflict, "email already registered")
	case errors.Is(err, auth.ErrEmailRequired), errors.Is(err, auth.ErrPasswordTooShort):
		writeError(ctx, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(ctx, w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, auth.ErrSessionExpired), errors.Is(err, auth.ErrSessionNotFound):
		writeError(ctx, w, http.StatusUnauthorized, "session expired")
	case errors.Is(err, order.ErrEmptyCart):
		writeError(ctx, w, http.StatusBadRequest, "cart is empty")
	default:
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
