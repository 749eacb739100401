package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gamehub-store/gamehub/internal/domain/auth"
	"github.com/gamehub-store/gamehub/internal/domain/user"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type sessionView struct {
	Token     uuid.UUID `json:"token"`
	ExpiresAt string    `json:"expires_at"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.auth.Register(ctx, auth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeData(w, http.StatusCreated, userView{ID: u.ID, Email: u.Email})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := h.auth.Login(ctx, auth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, sessionView{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, ok := bearerToken(r)
	if !ok {
		writeError(ctx, w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := h.auth.Logout(ctx, token); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"logged_out": true})
}

func bearerToken(r *http.Request) (uuid.UUID, bool) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return uuid.Nil, false
	}
	token, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, false
	}
	return token, true
}

// requireUser wraps a handler with bearer-token authentication and passes the
// resolved user through.
func (h *Handler) requireUser(next func(http.ResponseWriter, *http.Request, *user.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token, ok := bearerToken(r)
		if !ok {
			writeError(ctx, w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		u, err := h.auth.Authenticate(ctx, token)
		if err != nil {
			writeDomainError(ctx, w, err)
			return
		}
		next(w, r, u)
	}
}
